package backend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// BackendConfig configures the collection endpoint
type BackendConfig struct {
	Port int `yaml:"port"`
	// MaxRow is the highest row number a folder accepts
	MaxRow   int      `yaml:"maxRow"`
	Database Database `yaml:"database"`
}

const (
	defaultPort             = 8081
	defaultDatabaseType     = "sqlite"
	defaultConnectionString = "file:collector.db"
	// DefaultMaxRow bounds folder listings, which are filled up to the highest row
	DefaultMaxRow = 10000
)

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*BackendConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config BackendConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if config.Port > 65535 || config.Port < 0 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}

	return &config, nil
}

func (c *BackendConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.MaxRow <= 0 {
		c.MaxRow = DefaultMaxRow
	}
	if c.Database.Type == "" {
		c.Database.Type = defaultDatabaseType
	}
	if c.Database.ConnectionString == "" {
		c.Database.ConnectionString = defaultConnectionString
	}
}
