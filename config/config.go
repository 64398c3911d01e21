// Package config provides configuration parsing for hwpulse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the hwpulse configuration.
type Config struct {
	// Monitor holds sampling loop settings.
	Monitor MonitorConfig `yaml:"monitor"`

	// Server holds web server settings.
	Server ServerConfig `yaml:"server"`

	// Probes holds per-domain probe toggles.
	Probes ProbesConfig `yaml:"probes"`

	// Inventory holds one-shot inventory export settings.
	Inventory InventoryConfig `yaml:"inventory"`

	// LogFile is the path for log output. Empty logs to stderr.
	LogFile string `yaml:"log_file"`
}

// MonitorConfig holds sampling loop settings.
type MonitorConfig struct {
	// Interval is a duration string (e.g. "1s", "500ms") between snapshots.
	Interval string `yaml:"interval"`
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `yaml:"host"`
	// Port is the listen port.
	Port int `yaml:"port"`
}

// ProbesConfig holds per-domain probe toggles.
type ProbesConfig struct {
	// GPU controls whether GPU backends are detected and sampled.
	GPU bool `yaml:"gpu"`
	// SMIBinary overrides the nvidia-smi binary path. Empty uses PATH lookup.
	SMIBinary string `yaml:"smi_binary"`
}

// InventoryConfig holds one-shot inventory export settings.
type InventoryConfig struct {
	// OutputPath is the default JSON export path for -inventory runs.
	OutputPath string `yaml:"output_path"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Monitor: MonitorConfig{
			Interval: "1s",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Probes: ProbesConfig{
			GPU:       true,
			SMIBinary: "",
		},
		Inventory: InventoryConfig{
			OutputPath: "hardware_inventory.json",
		},
		LogFile: filepath.Join(home, ".local", "log", "hwpulse.log"),
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	if _, err := c.MonitorInterval(); err != nil {
		return err
	}

	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}

	if c.Inventory.OutputPath == "" {
		return fmt.Errorf("inventory.output_path is required")
	}

	return nil
}

// MonitorInterval parses the monitor interval duration string.
func (c *Config) MonitorInterval() (time.Duration, error) {
	if c.Monitor.Interval == "" {
		return 0, fmt.Errorf("monitor.interval is required")
	}
	d, err := time.ParseDuration(c.Monitor.Interval)
	if err != nil {
		return 0, fmt.Errorf("monitor.interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("monitor.interval must be positive, got %q", c.Monitor.Interval)
	}
	return d, nil
}

// ListenAddr returns the host:port pair for the web server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
