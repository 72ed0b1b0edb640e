package talos

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

// EnvTalosConfig is the environment variable pointing at the talosconfig file,
// used when no explicit path is provided.
const EnvTalosConfig = "TALOSCONFIG"

// configFs is the filesystem used to read talosconfig files.
// Exposed for testing
var configFs = afero.NewOsFs()

// Context is a named credential bundle from the talosconfig file: the node
// endpoints plus the base64-encoded TLS material to reach them.
type Context struct {
	Endpoints []string `json:"endpoints,omitempty"`
	CA        string   `json:"ca,omitempty"`
	Crt       string   `json:"crt,omitempty"`
	Key       string   `json:"key,omitempty"`
}

type configDocument struct {
	Context  string              `json:"context,omitempty"`
	Contexts map[string]*Context `json:"contexts,omitempty"`
}

// Config holds the talosconfig contents for the active context.
// Read-only after load, reload by creating a new Config.
type Config struct {
	// Path is the resolved location of the talosconfig file.
	Path string
	// ContextName is the name of the active context, empty if none is set.
	ContextName string

	context *Context
}

// DefaultConfigPath returns the conventional talosconfig location in the
// user's home directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".talos", "config")
}

// NewConfig loads the talosconfig resolved from path, the TALOSCONFIG
// environment variable, or the default home-directory location, in that order.
// A missing file is only an error when the path was explicitly supplied (path
// argument or environment variable); a missing default-guessed file yields an
// empty configuration with no endpoints.
func NewConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvTalosConfig); env != "" {
			path = env
			explicit = true
		} else {
			path = DefaultConfigPath()
		}
	}
	config := &Config{Path: path, context: &Context{}}
	data, err := afero.ReadFile(configFs, path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			klog.V(2).Infof("No talosconfig found at %s, no endpoints configured", path)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read talosconfig %s: %w", path, err)
	}
	var document configDocument
	if err = yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to parse talosconfig %s: %w", path, err)
	}
	config.ContextName = document.Context
	if document.Context == "" {
		klog.Warning("No context specified in talosconfig")
		return config, nil
	}
	context, ok := document.Contexts[document.Context]
	if !ok || context == nil {
		klog.Warningf("Context %q not found in talosconfig %s", document.Context, path)
		return config, nil
	}
	config.context = context
	klog.V(1).Infof("Loaded talosconfig for context: %s", document.Context)
	return config, nil
}

// Endpoints returns the endpoint list of the active context (possibly empty).
func (c *Config) Endpoints() []string {
	return c.context.Endpoints
}

// CACert returns the decoded CA certificate, or nil if the active context has none.
func (c *Config) CACert() ([]byte, error) {
	return decodeField("ca", c.context.CA)
}

// ClientCert returns the decoded client certificate, or nil if the active context has none.
func (c *Config) ClientCert() ([]byte, error) {
	return decodeField("crt", c.context.Crt)
}

// ClientKey returns the decoded client key, or nil if the active context has none.
func (c *Config) ClientKey() ([]byte, error) {
	return decodeField("key", c.context.Key)
}

// decodeField base64-decodes a credential field. The decoded bytes are not
// validated as certificate material, malformed contents only surface when the
// channel attempts the TLS handshake.
func decodeField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s field: %w", name, err)
	}
	return decoded, nil
}
