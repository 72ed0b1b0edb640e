package talos

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"k8s.io/klog/v2"
)

// ErrNoEndpoints is returned when neither an endpoint argument nor a
// configured endpoint is available to connect to.
var ErrNoEndpoints = errors.New("no endpoints configured")

type CloseWatchConfig func() error

// Client owns the authenticated channel to a Talos node. At most one channel
// is live per Client instance, it is reused across calls and released only by
// an explicit Close.
type Client struct {
	CloseWatchConfig CloseWatchConfig

	mu     sync.Mutex
	config *Config
	conn   *grpc.ClientConn
	secure bool

	connecting singleflight.Group
}

// NewClient loads the talosconfig resolved from configPath (see NewConfig for
// the resolution order) and returns a disconnected client.
func NewClient(configPath string) (*Client, error) {
	config, err := NewConfig(configPath)
	if err != nil {
		return nil, err
	}
	return &Client{config: config}, nil
}

// Config returns the currently loaded talosconfig.
func (c *Client) Config() *Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Endpoints returns the endpoint list of the active talosconfig context.
func (c *Client) Endpoints() []string {
	return c.Config().Endpoints()
}

// Connect returns the channel to the target endpoint, establishing it on
// first use. An already cached channel is returned unconditionally, even when
// a different endpoint is requested: the client keeps single-target semantics,
// switching targets requires Close first.
//
// Concurrent first calls collapse into one connection attempt, later callers
// wait for and share its result.
func (c *Client) Connect(ctx context.Context, endpoint string) (*grpc.ClientConn, error) {
	if conn := c.cachedConn(); conn != nil {
		return conn, nil
	}
	conn, err, _ := c.connecting.Do("connect", func() (interface{}, error) {
		if conn := c.cachedConn(); conn != nil {
			return conn, nil
		}
		conn, secure, err := c.dial(endpoint)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.conn = conn
		c.secure = secure
		c.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return conn.(*grpc.ClientConn), nil
}

func (c *Client) cachedConn() *grpc.ClientConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *Client) dial(endpoint string) (*grpc.ClientConn, bool, error) {
	config := c.Config()
	target := endpoint
	if target == "" {
		endpoints := config.Endpoints()
		if len(endpoints) == 0 {
			return nil, false, ErrNoEndpoints
		}
		target = endpoints[0]
	}
	transport, secure, err := transportCredentials(config)
	if err != nil {
		return nil, false, err
	}
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(transport))
	if err != nil {
		return nil, false, fmt.Errorf("failed to establish channel to %s: %w", target, err)
	}
	if secure {
		klog.V(1).Infof("Connected to Talos endpoint: %s (TLS)", target)
	} else {
		klog.Warningf("Connected to Talos endpoint: %s (INSECURE)", target)
	}
	return conn, secure, nil
}

// transportCredentials builds mutual-TLS credentials when the active context
// carries CA certificate, client certificate, and client key. Any of them
// missing selects the insecure transport instead. The key pair is loaded
// lazily so that malformed credential bytes surface at handshake time, not
// here.
func transportCredentials(config *Config) (credentials.TransportCredentials, bool, error) {
	ca, err := config.CACert()
	if err != nil {
		return nil, false, err
	}
	crt, err := config.ClientCert()
	if err != nil {
		return nil, false, err
	}
	key, err := config.ClientKey()
	if err != nil {
		return nil, false, err
	}
	if len(ca) == 0 || len(crt) == 0 || len(key) == 0 {
		return insecure.NewCredentials(), false, nil
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(ca)
	tlsConfig := &tls.Config{
		RootCAs: pool,
		GetClientCertificate: func(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
			pair, err := tls.X509KeyPair(crt, key)
			if err != nil {
				return nil, fmt.Errorf("failed to load client key pair: %w", err)
			}
			return &pair, nil
		},
	}
	return credentials.NewTLS(tlsConfig), true, nil
}

// Machine returns the machine API bound to the requested endpoint, connecting
// when no channel is cached yet.
func (c *Client) Machine(ctx context.Context, endpoint string) (MachineService, error) {
	conn, err := c.Connect(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return &machineClient{conn: conn, endpoint: endpoint}, nil
}

// WatchConfig reloads the talosconfig whenever the file changes on disk.
// The established channel is left untouched, only credentials and endpoints
// for future connections are refreshed. onConfigChange, if non-nil, runs after
// each successful reload.
func (c *Client) WatchConfig(onConfigChange func() error) {
	path := c.Config().Path
	if path == "" {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	_ = watcher.Add(path)
	go func() {
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				if err := c.reloadConfig(); err != nil {
					klog.Warningf("Failed to reload talosconfig: %v", err)
					continue
				}
				if onConfigChange != nil {
					_ = onConfigChange()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	if c.CloseWatchConfig != nil {
		_ = c.CloseWatchConfig()
	}
	c.CloseWatchConfig = watcher.Close
}

func (c *Client) reloadConfig() error {
	config, err := NewConfig(c.Config().Path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.config = config
	c.mu.Unlock()
	return nil
}

// Close releases the cached channel and stops the config watcher, if any.
// Idempotent, a closed client is back in the "no channel" state.
func (c *Client) Close() error {
	if c.CloseWatchConfig != nil {
		_ = c.CloseWatchConfig()
		c.CloseWatchConfig = nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.secure = false
	return err
}
