package talos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
)

const validTalosconfig = `
context: test-cluster
contexts:
  test-cluster:
    endpoints:
      - 192.168.1.10:50000
      - 192.168.1.11:50000
    ca: Y2EtY2VydA==
    crt: Y2xpZW50LWNlcnQ=
    key: Y2xpZW50LWtleQ==
`

type ConfigSuite struct {
	suite.Suite
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.T().Setenv(EnvTalosConfig, "")
}

func (s *ConfigSuite) writeTalosconfig(content string) string {
	path := filepath.Join(s.T().TempDir(), "talosconfig")
	err := os.WriteFile(path, []byte(content), 0600)
	s.Require().NoError(err, "Expected to write test talosconfig file")
	return path
}

func (s *ConfigSuite) TestNewConfigExplicitPath() {
	path := s.writeTalosconfig(validTalosconfig)
	config, err := NewConfig(path)
	s.Require().NoError(err, "Expected to load talosconfig")
	s.Run("resolves the provided path", func() {
		s.Equal(path, config.Path)
	})
	s.Run("selects the active context", func() {
		s.Equal("test-cluster", config.ContextName)
	})
	s.Run("exposes the context endpoints", func() {
		s.Equal([]string{"192.168.1.10:50000", "192.168.1.11:50000"}, config.Endpoints())
	})
	s.Run("decodes the credential fields", func() {
		ca, err := config.CACert()
		s.NoError(err)
		s.Equal([]byte("ca-cert"), ca)
		crt, err := config.ClientCert()
		s.NoError(err)
		s.Equal([]byte("client-cert"), crt)
		key, err := config.ClientKey()
		s.NoError(err)
		s.Equal([]byte("client-key"), key)
	})
}

func (s *ConfigSuite) TestNewConfigEnvironmentVariable() {
	path := s.writeTalosconfig(validTalosconfig)
	s.T().Setenv(EnvTalosConfig, path)
	config, err := NewConfig("")
	s.Require().NoError(err, "Expected to load talosconfig from environment")
	s.Run("resolves the path from TALOSCONFIG", func() {
		s.Equal(path, config.Path)
		s.Equal("test-cluster", config.ContextName)
	})

	s.Run("explicit path takes precedence over TALOSCONFIG", func() {
		other := s.writeTalosconfig(validTalosconfig)
		config, err := NewConfig(other)
		s.NoError(err)
		s.Equal(other, config.Path)
	})

	s.Run("missing file pointed to by TALOSCONFIG is an error", func() {
		s.T().Setenv(EnvTalosConfig, filepath.Join(s.T().TempDir(), "does-not-exist"))
		config, err := NewConfig("")
		s.Error(err)
		s.Nil(config)
	})
}

func (s *ConfigSuite) TestNewConfigMissingFile() {
	s.Run("missing explicit file is an error", func() {
		config, err := NewConfig(filepath.Join(s.T().TempDir(), "does-not-exist"))
		s.Error(err)
		s.Nil(config)
	})

	s.Run("missing default-guessed file yields empty config", func() {
		originalFs := configFs
		configFs = afero.NewMemMapFs()
		defer func() { configFs = originalFs }()
		config, err := NewConfig("")
		s.NoError(err)
		s.Require().NotNil(config)
		s.Empty(config.Endpoints())
		s.Empty(config.ContextName)
	})
}

func (s *ConfigSuite) TestNewConfigMalformed() {
	path := s.writeTalosconfig("contexts: [not, a, mapping")
	config, err := NewConfig(path)
	s.Run("malformed yaml is an error", func() {
		s.Error(err)
		s.Nil(config)
	})
}

func (s *ConfigSuite) TestNewConfigIncomplete() {
	s.Run("no context selected yields empty config", func() {
		path := s.writeTalosconfig("contexts: {}")
		config, err := NewConfig(path)
		s.NoError(err)
		s.Empty(config.ContextName)
		s.Empty(config.Endpoints())
	})

	s.Run("selected context not present yields empty config", func() {
		path := s.writeTalosconfig("context: missing\ncontexts: {}")
		config, err := NewConfig(path)
		s.NoError(err)
		s.Equal("missing", config.ContextName)
		s.Empty(config.Endpoints())
	})

	s.Run("context without credentials decodes to nil", func() {
		path := s.writeTalosconfig("context: bare\ncontexts:\n  bare:\n    endpoints:\n      - 10.0.0.1:50000")
		config, err := NewConfig(path)
		s.NoError(err)
		ca, err := config.CACert()
		s.NoError(err)
		s.Nil(ca)
	})
}

func (s *ConfigSuite) TestCredentialDecodeError() {
	path := s.writeTalosconfig("context: bad\ncontexts:\n  bad:\n    ca: 'not base64!!!'")
	config, err := NewConfig(path)
	s.Require().NoError(err, "Decoding is deferred, loading should succeed")
	s.Run("malformed base64 surfaces on decode", func() {
		_, err := config.CACert()
		s.Error(err)
		s.ErrorContains(err, "failed to decode ca field")
	})
}
