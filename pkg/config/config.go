package config

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"
)

// StaticConfig is the configuration for the server.
// It allows to configure server specific settings and tools to be enabled or disabled.
type StaticConfig struct {
	LogLevel   int    `toml:"log_level,omitzero"`
	Port       string `toml:"port,omitempty"`
	SSEBaseURL string `toml:"sse_base_url,omitempty"`
	// TalosConfig is the path to the talosconfig file. When empty, the
	// TALOSCONFIG environment variable or the default home-directory
	// location is used.
	TalosConfig string `toml:"talosconfig,omitempty"`
	// When true, expose only tools annotated with readOnlyHint=true
	ReadOnly bool `toml:"read_only,omitempty"`
	// When true, disable tools annotated with destructiveHint=true
	DisableDestructive bool     `toml:"disable_destructive,omitempty"`
	Toolsets           []string `toml:"toolsets,omitempty"`
	EnabledTools       []string `toml:"enabled_tools,omitempty"`
	DisabledTools      []string `toml:"disabled_tools,omitempty"`
	// When true, the server runs without client-session state and does not
	// send list-changed notifications. Useful behind load balancers.
	Stateless bool `toml:"stateless,omitempty"`
	// ServerInstructions are sent to MCP clients during initialization.
	ServerInstructions string `toml:"server_instructions,omitempty"`
}

// Read reads the toml file and returns the StaticConfig.
// Values present in the file overwrite the defaults, values not present
// remain at their default.
func Read(configPath string) (*StaticConfig, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return ReadToml(configData)
}

// ReadToml reads the toml data and returns the StaticConfig.
func ReadToml(configData []byte) (*StaticConfig, error) {
	config := Default()
	if _, err := toml.NewDecoder(bytes.NewReader(configData)).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}
