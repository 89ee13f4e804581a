package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Server struct {
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"` // "debug" or "release"
	} `yaml:"server"`
	Auth struct {
		Secret       string `yaml:"secret"`
		TokenTTLHour int    `yaml:"token_ttl_hour"`
	} `yaml:"auth"`
	Signer struct {
		Seed           string `yaml:"seed"` // base58-encoded ed25519 seed
		ArtifactTTLMin int    `yaml:"artifact_ttl_min"`
		TimeoutSec     int    `yaml:"timeout_sec"`
	} `yaml:"signer"`
	Chain struct {
		WSURL string `yaml:"ws_url"` // empty disables the chain feed
	} `yaml:"chain"`
}

// DSN generates the PostgreSQL DSN from database config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

// TokenTTL returns the configured bearer token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHour) * time.Hour
}

// ArtifactTTL returns the signed artifact validity window.
func (c *Config) ArtifactTTL() time.Duration {
	return time.Duration(c.Signer.ArtifactTTLMin) * time.Minute
}

// SignTimeout returns the bound on one delegate signing call.
func (c *Config) SignTimeout() time.Duration {
	return time.Duration(c.Signer.TimeoutSec) * time.Second
}

// Load reads and parses the YAML configuration file, then applies
// environment overrides (PORT, APP_ENV).
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Server.Mode = env
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Signer.ArtifactTTLMin == 0 {
		cfg.Signer.ArtifactTTLMin = 10
	}
	if cfg.Signer.TimeoutSec == 0 {
		cfg.Signer.TimeoutSec = 5
	}
	if cfg.Auth.TokenTTLHour == 0 {
		cfg.Auth.TokenTTLHour = 24
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.SSLMode == "" {
		return fmt.Errorf("database.sslmode is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if c.Signer.Seed == "" {
		return fmt.Errorf("signer.seed is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("server.mode must be \"debug\" or \"release\"")
	}
	return nil
}
