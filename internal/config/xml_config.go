// Package config provides XML-based configuration management for the
// learning intelligence server.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"LearningIntelligence"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Inference configuration
	Inference InferenceConfig `xml:"Inference"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	DataDirectory    string `xml:"DataDirectory"`
	UploadsDirectory string `xml:"UploadsDirectory"`
	OutputsDirectory string `xml:"OutputsDirectory"`
}

// InferenceConfig contains prediction engine settings
type InferenceConfig struct {
	WeightsPath string `xml:"WeightsPath"`
	EagerLoad   bool   `xml:"EagerLoad"` // load models at startup instead of on first predict
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	ExposeErrorDetails   bool   `xml:"ExposeErrorDetails"` // include internal error text in 500 responses
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "16M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			OutputsDirectory: "./data/outputs",
		},
		Inference: InferenceConfig{
			WeightsPath: "./data/models/weights.yaml",
			EagerLoad:   false,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
			ExposeErrorDetails:   false,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &AppConfig{}
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Learning Intelligence Server Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	// BIND_ADDRESS override
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		c.Server.BindAddress = addr
	}

	// DATA_DIR override
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		c.Storage.OutputsDirectory = filepath.Join(dataDir, "outputs")
	}

	// MODEL_WEIGHTS override
	if weights := os.Getenv("MODEL_WEIGHTS"); weights != "" {
		c.Inference.WeightsPath = weights
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.UploadsDirectory) {
		c.Storage.UploadsDirectory = filepath.Join(configDir, c.Storage.UploadsDirectory)
	}
	if !filepath.IsAbs(c.Storage.OutputsDirectory) {
		c.Storage.OutputsDirectory = filepath.Join(configDir, c.Storage.OutputsDirectory)
	}
	if !filepath.IsAbs(c.Inference.WeightsPath) {
		c.Inference.WeightsPath = filepath.Join(configDir, c.Inference.WeightsPath)
	}
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetOutputDir returns the absolute outputs directory path
func (c *AppConfig) GetOutputDir() string {
	return c.Storage.OutputsDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
		c.Storage.OutputsDirectory,
		filepath.Dir(c.Inference.WeightsPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
