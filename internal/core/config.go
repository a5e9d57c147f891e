package core

import (
	"fmt"
	"os"
	"time"

	"github.com/jo-hoe/shelfintake/internal/backend/commandstructure"
	"github.com/jo-hoe/shelfintake/internal/backend/compression"
	"gopkg.in/yaml.v3"
)

// Variant selects how the row table is loaded
type Variant string

const (
	// VariantBlankRow starts with one blank row and appends another after each upload
	VariantBlankRow Variant = "blankRow"
	// VariantFetch loads the folder's rows from the endpoint
	VariantFetch Variant = "fetch"
)

const (
	defaultPort           = 8080
	defaultRequestTimeout = 30 * time.Second
	defaultEndpoint       = "http://localhost:8081/notfoundproductslist"
)

type FolderStoreConfig struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
	// FolderName seeds the memory store
	FolderName string `yaml:"folderName"`
}

type BarcodePreviewConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ServiceConfig struct {
	Port               int                              `yaml:"port"`
	Variant            Variant                          `yaml:"variant"`
	Endpoint           string                           `yaml:"endpoint"`
	RequestTimeout     time.Duration                    `yaml:"requestTimeout"`
	FolderStore        FolderStoreConfig                `yaml:"folderStore"`
	Compression        compression.Options              `yaml:"compression"`
	MediaLibraryAccess string                           `yaml:"mediaLibraryAccess"`
	CacheDir           string                           `yaml:"cacheDir"`
	Commands           []commandstructure.CommandConfig `yaml:"commands"`
	BarcodePreview     BarcodePreviewConfig             `yaml:"barcodePreview"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills every unset value
func (c *ServiceConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Variant == "" {
		c.Variant = VariantBlankRow
	}
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.FolderStore.Type == "" {
		c.FolderStore.Type = "memory"
	}
	c.Compression = c.Compression.WithDefaults()
	if c.MediaLibraryAccess == "" {
		c.MediaLibraryAccess = "granted"
	}
	if c.CacheDir == "" {
		c.CacheDir = os.TempDir()
	}
}

// Validate checks the config after defaults have been applied
func (c *ServiceConfig) Validate() error {
	switch c.Variant {
	case VariantBlankRow, VariantFetch:
	default:
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	switch c.MediaLibraryAccess {
	case "granted", "denied":
	default:
		return fmt.Errorf("mediaLibraryAccess must be granted or denied, got %q", c.MediaLibraryAccess)
	}
	if err := c.Compression.Validate(); err != nil {
		return fmt.Errorf("invalid compression configuration: %w", err)
	}

	// Validate commands
	if err := validateCommands(c.Commands); err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}
	return nil
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []commandstructure.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		// Validate name is not empty
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true

		if !commandstructure.DefaultRegistry.IsRegistered(cmd.Name) {
			return fmt.Errorf("unknown command %s at index %d", cmd.Name, i)
		}
	}

	return nil
}
