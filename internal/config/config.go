package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	// Name identifies the emulated database in logs and dumps.
	Name string `yaml:"name"`
}

type DDLConfig struct {
	// Files are schema files applied in order, each holding one or more
	// semicolon-separated DDL statements.
	Files []string `yaml:"files"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	DDL      DDLConfig      `yaml:"ddl"`
	Verbose  bool           `yaml:"verbose"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Database.Name = normalizeDatabaseName("")
	return cfg
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.Database.Name = normalizeDatabaseName(config.Database.Name)

	return &config, nil
}

func normalizeDatabaseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "test-db"
	}
	return name
}
