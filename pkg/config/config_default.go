package config

// Default returns the default configuration: both toolsets enabled, stdio
// transport, and write tools exposed.
func Default() *StaticConfig {
	return &StaticConfig{
		Toolsets: []string{"machine", "cluster"},
	}
}
