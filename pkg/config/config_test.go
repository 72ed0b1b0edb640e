package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) writeConfig(content string) string {
	path := filepath.Join(s.T().TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(content), 0644)
	s.Require().NoError(err, "Expected to write test config file")
	return path
}

func (s *ConfigSuite) TestReadConfigMissingFile() {
	config, err := Read("non-existent-config.toml")
	s.Run("returns error for missing file", func() {
		s.Error(err)
		s.Nil(config)
	})
}

func (s *ConfigSuite) TestReadConfigInvalid() {
	invalidConfigPath := s.writeConfig(`
	[[toolsets]]
	name = "not an array of strings"
	`)
	config, err := Read(invalidConfigPath)
	s.Run("returns error for invalid file", func() {
		s.Error(err)
		s.Nil(config)
	})
}

func (s *ConfigSuite) TestReadConfigValid() {
	validConfigPath := s.writeConfig(`
	log_level = 2
	port = "9000"
	talosconfig = "./path/to/talosconfig"
	read_only = true
	disable_destructive = false
	toolsets = ["machine"]
	enabled_tools = ["talos_version", "talos_etcd_status"]
	disabled_tools = ["talos_reboot"]
	server_instructions = "Talos cluster operations assistant"
	`)
	config, err := Read(validConfigPath)
	s.Require().NoError(err, "Expected to read valid config file")
	s.Run("reads log level", func() {
		s.Equal(2, config.LogLevel)
	})
	s.Run("reads port", func() {
		s.Equal("9000", config.Port)
	})
	s.Run("reads talosconfig path", func() {
		s.Equal("./path/to/talosconfig", config.TalosConfig)
	})
	s.Run("reads read_only", func() {
		s.True(config.ReadOnly)
	})
	s.Run("reads disable_destructive", func() {
		s.False(config.DisableDestructive)
	})
	s.Run("reads toolsets", func() {
		s.Equal([]string{"machine"}, config.Toolsets)
	})
	s.Run("reads enabled tools", func() {
		s.Equal([]string{"talos_version", "talos_etcd_status"}, config.EnabledTools)
	})
	s.Run("reads disabled tools", func() {
		s.Equal([]string{"talos_reboot"}, config.DisabledTools)
	})
	s.Run("reads server instructions", func() {
		s.Equal("Talos cluster operations assistant", config.ServerInstructions)
	})
}

func (s *ConfigSuite) TestReadToml() {
	s.Run("decodes toml data directly", func() {
		config, err := ReadToml([]byte(`port = "8888"`))
		s.Require().NoError(err)
		s.Equal("8888", config.Port)
	})
	s.Run("returns error for invalid toml data", func() {
		config, err := ReadToml([]byte(`port = `))
		s.Error(err)
		s.Nil(config)
	})
}

func (s *ConfigSuite) TestDefault() {
	config := Default()
	s.Run("both toolsets enabled by default", func() {
		s.Equal([]string{"machine", "cluster"}, config.Toolsets)
	})
	s.Run("stdio transport by default", func() {
		s.Empty(config.Port)
	})
	s.Run("write tools exposed by default", func() {
		s.False(config.ReadOnly)
		s.False(config.DisableDestructive)
	})
}

func (s *ConfigSuite) TestReadConfigPartial() {
	partialConfigPath := s.writeConfig(`port = "8080"`)
	config, err := Read(partialConfigPath)
	s.Require().NoError(err, "Expected to read partial config file")
	s.Run("values not in the file keep their defaults", func() {
		s.Equal([]string{"machine", "cluster"}, config.Toolsets)
	})
	s.Run("values in the file override defaults", func() {
		s.Equal("8080", config.Port)
	})
}
