package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	DefaultSocrataBaseURL = "https://api.us.socrata.com/api/catalog/v1"
	DefaultTimemapURL     = "http://web.archive.org/web/timemap/link/"
)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	// The config file is optional: defaults plus environment cover a
	// plain run, but a named file that cannot be read is an error.
	if _, err := os.Stat(configPath); err == nil {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return &config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.viper == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) {
	m.viper.SetConfigFile(configPath)

	m.viper.SetEnvPrefix("DATADOC")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	m.viper.SetDefault("socrata.base_url", DefaultSocrataBaseURL)
	m.viper.SetDefault("socrata.timeout", 30)
	m.viper.SetDefault("archive.timemap_url", DefaultTimemapURL)
	m.viper.SetDefault("archive.enabled", true)
	m.viper.SetDefault("archive.timeout", 60)
	m.viper.SetDefault("throttle.interval", 10)
	m.viper.SetDefault("output.csv_path", "output/dataset_documentation.csv")
	m.viper.SetDefault("output.json_path", "output/dataset_documentation.json")
	m.viper.SetDefault("server.host", "0.0.0.0")
	m.viper.SetDefault("server.port", 8080)
	m.viper.SetDefault("logger.level", "info")
	m.viper.SetDefault("logger.format", "console")
	m.viper.SetDefault("logger.output", "stderr")
}

func (m *manager) validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Socrata.BaseURL == "" {
		return fmt.Errorf("socrata base_url cannot be empty")
	}

	if config.Socrata.Timeout <= 0 {
		return fmt.Errorf("socrata timeout must be positive")
	}

	if config.Archive.Enabled && config.Archive.TimemapURL == "" {
		return fmt.Errorf("archive timemap_url cannot be empty")
	}

	if config.Throttle.Interval < 0 {
		return fmt.Errorf("throttle interval cannot be negative")
	}

	if config.Output.CSVPath == "" && config.Output.JSONPath == "" {
		return fmt.Errorf("at least one output path is required")
	}

	return nil
}
