package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Relay  RelayConfig  `yaml:"relay"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RelayConfig struct {
	// SendBuffer is the per-connection outbound queue length. A full
	// queue drops messages instead of blocking the core.
	SendBuffer int `yaml:"send_buffer"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Relay: RelayConfig{
			SendBuffer: 64,
		},
	}
}

// Load reads the yaml config at path on top of the defaults. A
// missing file is not an error: the server runs fine with defaults
// alone. A file that exists but does not parse is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Server.Port)
	}
	if cfg.Relay.SendBuffer <= 0 {
		return nil, fmt.Errorf("invalid send_buffer %d", cfg.Relay.SendBuffer)
	}

	return cfg, nil
}
