package talos

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
)

type ClientSuite struct {
	suite.Suite
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.T().Setenv(EnvTalosConfig, "")
}

func (s *ClientSuite) newClient(talosconfig string) *Client {
	path := filepath.Join(s.T().TempDir(), "talosconfig")
	err := os.WriteFile(path, []byte(talosconfig), 0600)
	s.Require().NoError(err, "Expected to write test talosconfig file")
	client, err := NewClient(path)
	s.Require().NoError(err, "Expected to create client")
	s.T().Cleanup(func() { _ = client.Close() })
	return client
}

func (s *ClientSuite) TestConnectNoEndpoints() {
	client := s.newClient("context: empty\ncontexts:\n  empty: {}")
	conn, err := client.Connect(context.Background(), "")
	s.Run("no endpoint argument and no configured endpoints is an error", func() {
		s.ErrorIs(err, ErrNoEndpoints)
		s.Nil(conn)
	})
	s.Run("an explicit endpoint does not require configured endpoints", func() {
		conn, err := client.Connect(context.Background(), "10.0.0.1:50000")
		s.NoError(err)
		s.NotNil(conn)
	})
}

func (s *ClientSuite) TestConnectCachesChannel() {
	client := s.newClient(validTalosconfig)
	first, err := client.Connect(context.Background(), "")
	s.Require().NoError(err, "Expected first connect to succeed")
	s.Run("first connect picks the first configured endpoint", func() {
		s.Contains(first.Target(), "192.168.1.10:50000")
	})
	s.Run("second connect returns the cached channel", func() {
		second, err := client.Connect(context.Background(), "")
		s.NoError(err)
		s.Same(first, second)
	})
	s.Run("cached channel is returned even for a different endpoint", func() {
		second, err := client.Connect(context.Background(), "192.168.1.11:50000")
		s.NoError(err)
		s.Same(first, second)
	})
	s.Run("close releases the cached channel", func() {
		s.NoError(client.Close())
		s.Nil(client.cachedConn())
	})
	s.Run("connect after close establishes a new channel", func() {
		third, err := client.Connect(context.Background(), "")
		s.NoError(err)
		s.NotSame(first, third)
	})
	s.Run("close is idempotent", func() {
		s.NoError(client.Close())
		s.NoError(client.Close())
	})
}

func (s *ClientSuite) TestConnectConcurrent() {
	client := s.newClient(validTalosconfig)
	const callers = 32
	conns := make([]*grpc.ClientConn, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := range callers {
		go func() {
			defer wg.Done()
			conn, err := client.Connect(context.Background(), "")
			s.NoError(err)
			conns[i] = conn
		}()
	}
	wg.Wait()
	s.Run("concurrent first callers share one channel", func() {
		s.Require().NotNil(conns[0])
		for _, conn := range conns[1:] {
			s.Same(conns[0], conn)
		}
	})
}

func (s *ClientSuite) TestTransportCredentials() {
	s.Run("complete credentials select mutual TLS", func() {
		client := s.newClient(validTalosconfig)
		creds, secure, err := transportCredentials(client.Config())
		s.NoError(err)
		s.True(secure)
		s.Equal("tls", creds.Info().SecurityProtocol)
	})

	s.Run("missing credentials select the insecure transport", func() {
		client := s.newClient("context: bare\ncontexts:\n  bare:\n    endpoints:\n      - 10.0.0.1:50000")
		creds, secure, err := transportCredentials(client.Config())
		s.NoError(err)
		s.False(secure)
		s.Equal("insecure", creds.Info().SecurityProtocol)
	})

	s.Run("partial credentials select the insecure transport", func() {
		client := s.newClient("context: partial\ncontexts:\n  partial:\n    ca: Y2EtY2VydA==")
		_, secure, err := transportCredentials(client.Config())
		s.NoError(err)
		s.False(secure)
	})

	s.Run("credential bytes are not validated before the handshake", func() {
		// "anVuaw==" decodes to "junk", not PEM material
		client := s.newClient("context: junk\ncontexts:\n  junk:\n    ca: anVuaw==\n    crt: anVuaw==\n    key: anVuaw==")
		_, secure, err := transportCredentials(client.Config())
		s.NoError(err)
		s.True(secure)
	})

	s.Run("undecodable credentials are an error", func() {
		client := s.newClient("context: bad\ncontexts:\n  bad:\n    ca: 'not base64!!!'")
		_, _, err := transportCredentials(client.Config())
		s.Error(err)
	})
}

func (s *ClientSuite) TestConnectSecureFlag() {
	s.Run("secure channel with full credentials", func() {
		client := s.newClient(validTalosconfig)
		_, err := client.Connect(context.Background(), "")
		s.NoError(err)
		s.True(client.secure)
	})
	s.Run("insecure channel without credentials", func() {
		client := s.newClient("context: bare\ncontexts:\n  bare:\n    endpoints:\n      - 10.0.0.1:50000")
		_, err := client.Connect(context.Background(), "")
		s.NoError(err)
		s.False(client.secure)
	})
}

func (s *ClientSuite) TestReloadConfig() {
	client := s.newClient(validTalosconfig)
	s.Require().Equal([]string{"192.168.1.10:50000", "192.168.1.11:50000"}, client.Endpoints())
	err := os.WriteFile(client.Config().Path, []byte("context: other\ncontexts:\n  other:\n    endpoints:\n      - 10.1.2.3:50000"), 0600)
	s.Require().NoError(err, "Expected to rewrite talosconfig")
	s.Require().NoError(client.reloadConfig())
	s.Run("reload refreshes endpoints for future connections", func() {
		s.Equal([]string{"10.1.2.3:50000"}, client.Endpoints())
		s.Equal("other", client.Config().ContextName)
	})
}

func (s *ClientSuite) TestMachine() {
	client := s.newClient(validTalosconfig)
	machine, err := client.Machine(context.Background(), "")
	s.Run("machine API is bound to the established channel", func() {
		s.NoError(err)
		s.NotNil(machine)
	})
	s.Run("reboot acknowledges the requested endpoint, not the channel target", func() {
		// the channel is already cached for the first configured endpoint
		machine, err := client.Machine(context.Background(), "192.168.1.11:50000")
		s.Require().NoError(err)
		status, err := machine.Reboot(context.Background(), "default")
		s.Require().NoError(err)
		s.Equal("Node 192.168.1.11:50000 reboot initiated", status.Message)
	})
	s.Run("machine API for no endpoints is an error", func() {
		empty := s.newClient("context: empty\ncontexts:\n  empty: {}")
		machine, err := empty.Machine(context.Background(), "")
		s.ErrorIs(err, ErrNoEndpoints)
		s.Nil(machine)
	})
}
