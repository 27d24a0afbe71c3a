package config

import (
	"errors"
	"fmt"
	"os"

	"equipbook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig          `yaml:"app"`
	Database   DatabaseConfig     `yaml:"database"`
	Redis      RedisConfig        `yaml:"redis"`
	Backup     BackupConfig       `yaml:"backup"`
	Monitoring MonitoringConfig   `yaml:"monitoring"`
	Logging    LoggingConfig      `yaml:"logging"`
	Booking    BookingConfig      `yaml:"booking"`
	Equipment  []models.Equipment `yaml:"equipment"`
	Exports    ExportConfig       `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type BookingConfig struct {
	MaxAdvanceDays     int `yaml:"max_advance_days"`
	SessionTTLSeconds  int `yaml:"session_ttl_seconds"`
	RateLimitCommands  int `yaml:"rate_limit_commands"`
	RateLimitWindowSec int `yaml:"rate_limit_window_seconds"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; env vars referenced from the YAML may come
	// from anywhere.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	return ValidateEquipment(c.Equipment)
}

func ValidateEquipment(items []models.Equipment) error {
	ids := make(map[string]bool)
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("equipment '%s' has empty ID", item.Name)
		}
		if ids[item.ID] {
			return fmt.Errorf("duplicate equipment ID found: %s", item.ID)
		}
		ids[item.ID] = true

		if item.Quantity < 0 {
			return fmt.Errorf("equipment %s has negative quantity", item.ID)
		}
		if item.Available < 0 || item.Available > item.Quantity {
			return fmt.Errorf("equipment %s availability %d outside [0, %d]", item.ID, item.Available, item.Quantity)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Booking.MaxAdvanceDays == 0 {
		c.Booking.MaxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	if c.Booking.SessionTTLSeconds == 0 {
		c.Booking.SessionTTLSeconds = models.DefaultSessionTTL
	}
	if c.Booking.RateLimitCommands == 0 {
		c.Booking.RateLimitCommands = models.RateLimitCommands
	}
	if c.Booking.RateLimitWindowSec == 0 {
		c.Booking.RateLimitWindowSec = models.RateLimitWindow
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	// Seeded equipment starts fully available unless told otherwise.
	for i := range c.Equipment {
		if c.Equipment[i].Available == 0 && c.Equipment[i].Quantity > 0 {
			c.Equipment[i].Available = c.Equipment[i].Quantity
		}
	}
}
