// Package config loads the keywardd daemon configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the keywardd configuration.
type Config struct {
	// Socket is the unix socket path the facility listens on.
	Socket string `yaml:"socket"`

	// KeystoreDir roots the software provider's key storage.
	KeystoreDir string `yaml:"keystore_dir"`

	// SecretFile holds the keystore sealing secret. Must not be
	// world-readable.
	SecretFile string `yaml:"secret_file"`

	// GRPCListen, when set, exposes the facility to remote peers on this
	// TCP address.
	GRPCListen string `yaml:"grpc_listen"`

	// RemoteTarget, when set, registers a remote provider proxying to
	// another facility's gRPC endpoint.
	RemoteTarget string `yaml:"remote_target"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultPath returns the default config file path: ~/.keyward/keywardd.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".keyward", "keywardd.yaml")
	}
	return filepath.Join(home, ".keyward", "keywardd.yaml")
}

func defaults() *Config {
	base := filepath.Join(os.TempDir(), "keyward")
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".keyward")
	}
	return &Config{
		Socket:      filepath.Join(base, "keyward.sock"),
		KeystoreDir: filepath.Join(base, "keystore"),
		SecretFile:  filepath.Join(base, "secret"),
		LogLevel:    "info",
	}
}

// Load reads the configuration from the given YAML file path. A missing
// file yields the defaults with no error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Socket == "" {
		return fmt.Errorf("socket is required")
	}
	if c.KeystoreDir == "" {
		return fmt.Errorf("keystore_dir is required")
	}
	return nil
}

// Secret reads the keystore sealing secret. The file must exist and must
// not be readable by group or world.
func (c *Config) Secret() ([]byte, error) {
	info, err := os.Stat(c.SecretFile)
	if err != nil {
		return nil, err
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return nil, fmt.Errorf("secret file %s has permissions %04o, want 0600", c.SecretFile, perm)
	}
	data, err := os.ReadFile(c.SecretFile)
	if err != nil {
		return nil, err
	}
	secret := []byte(strings.TrimSpace(string(data)))
	if len(secret) == 0 {
		return nil, fmt.Errorf("secret file %s is empty", c.SecretFile)
	}
	return secret, nil
}
