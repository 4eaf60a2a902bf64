package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type TransportConfig struct {
	Type string `mapstructure:"type"` // "stdio" or "sse"
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// InstanceConfig identifies the managed BirdNET-Go instance on this host.
type InstanceConfig struct {
	ContainerName string `mapstructure:"container_name"`
	ImagePrefix   string `mapstructure:"image_prefix"`
	UnitName      string `mapstructure:"unit_name"`
	HealthHost    string `mapstructure:"health_host"`
	HealthPort    int    `mapstructure:"health_port"`
	LogFile       string `mapstructure:"log_file"`
}

type PollConfig struct {
	HealthInterval       time.Duration `mapstructure:"health_interval"`
	ContainerLogInterval time.Duration `mapstructure:"container_log_interval"`
	AppLogInterval       time.Duration `mapstructure:"app_log_interval"`
}

type UpdateConfig struct {
	RegistryTagsURL string        `mapstructure:"registry_tags_url"`
	ReleasesURL     string        `mapstructure:"releases_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type BackendDiscoveryConfig struct {
	SyncInterval time.Duration `mapstructure:"sync_interval"`
	Enabled      bool          `mapstructure:"enabled"`
}

type ServerConfig struct {
	Transport        TransportConfig        `mapstructure:"transport"`
	LogLevel         string                 `mapstructure:"log_level"`
	LogFormat        string                 `mapstructure:"log_format"`
	LogBufferSize    int                    `mapstructure:"log_buffer_size"`
	CommandTimeout   time.Duration          `mapstructure:"command_timeout"`
	SudoPath         string                 `mapstructure:"sudo_path"`
	Instance         InstanceConfig         `mapstructure:"instance"`
	Poll             PollConfig             `mapstructure:"poll"`
	Update           UpdateConfig           `mapstructure:"update"`
	BackendDiscovery BackendDiscoveryConfig `mapstructure:"backend_discovery"`
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Transport: TransportConfig{
			Type: "stdio",
			Host: "localhost",
			Port: 8080,
		},
		LogLevel:       "info",
		LogFormat:      "json",
		LogBufferSize:  1000,
		CommandTimeout: 30 * time.Second,
		SudoPath:       "/usr/bin/sudo",
		Instance: InstanceConfig{
			ContainerName: "birdnet-go",
			ImagePrefix:   "ghcr.io/tphakala/birdnet-go",
			UnitName:      "birdnet-go.service",
			HealthHost:    "localhost",
			HealthPort:    8080,
			LogFile:       "/var/log/birdnet-go/birdnet.log",
		},
		Poll: PollConfig{
			HealthInterval:       10 * time.Second,
			ContainerLogInterval: 5 * time.Second,
			AppLogInterval:       3 * time.Second,
		},
		Update: UpdateConfig{
			RegistryTagsURL: "https://ghcr.io/v2/tphakala/birdnet-go/tags/list",
			ReleasesURL:     "https://api.github.com/repos/tphakala/birdnet-go/releases/latest",
			RequestTimeout:  10 * time.Second,
		},
		BackendDiscovery: BackendDiscoveryConfig{
			SyncInterval: 1 * time.Minute,
			Enabled:      true,
		},
	}
}

func LoadConfig() (*ServerConfig, error) {
	config := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/birdnet-mcp/")
	viper.AddConfigPath("$HOME/.birdnet-mcp/")

	viper.SetEnvPrefix("BIRDNET_MCP")
	viper.AutomaticEnv()

	viper.SetDefault("transport.type", config.Transport.Type)
	viper.SetDefault("transport.host", config.Transport.Host)
	viper.SetDefault("transport.port", config.Transport.Port)
	viper.SetDefault("log_level", config.LogLevel)
	viper.SetDefault("log_format", config.LogFormat)
	viper.SetDefault("log_buffer_size", config.LogBufferSize)
	viper.SetDefault("command_timeout", config.CommandTimeout)
	viper.SetDefault("sudo_path", config.SudoPath)

	viper.SetDefault("instance.container_name", config.Instance.ContainerName)
	viper.SetDefault("instance.image_prefix", config.Instance.ImagePrefix)
	viper.SetDefault("instance.unit_name", config.Instance.UnitName)
	viper.SetDefault("instance.health_host", config.Instance.HealthHost)
	viper.SetDefault("instance.health_port", config.Instance.HealthPort)
	viper.SetDefault("instance.log_file", config.Instance.LogFile)

	viper.SetDefault("poll.health_interval", config.Poll.HealthInterval)
	viper.SetDefault("poll.container_log_interval", config.Poll.ContainerLogInterval)
	viper.SetDefault("poll.app_log_interval", config.Poll.AppLogInterval)

	viper.SetDefault("update.registry_tags_url", config.Update.RegistryTagsURL)
	viper.SetDefault("update.releases_url", config.Update.ReleasesURL)
	viper.SetDefault("update.request_timeout", config.Update.RequestTimeout)

	viper.SetDefault("backend_discovery.sync_interval", config.BackendDiscovery.SyncInterval)
	viper.SetDefault("backend_discovery.enabled", config.BackendDiscovery.Enabled)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *ServerConfig) error {
	if config.Transport.Type != "stdio" && config.Transport.Type != "sse" {
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	if config.Transport.Port <= 0 || config.Transport.Port > 65535 {
		return fmt.Errorf("the transport port must be between 1 and 65535")
	}

	if config.CommandTimeout <= 0 {
		return fmt.Errorf("the command timeout must be positive")
	}

	if config.Instance.ContainerName == "" {
		return fmt.Errorf("the container name cannot be empty")
	}

	if config.Instance.ImagePrefix == "" {
		return fmt.Errorf("the image prefix cannot be empty")
	}

	if config.Instance.UnitName == "" {
		return fmt.Errorf("the systemd unit name cannot be empty")
	}

	if config.Instance.HealthPort <= 0 || config.Instance.HealthPort > 65535 {
		return fmt.Errorf("the health port must be between 1 and 65535")
	}

	if config.Poll.HealthInterval <= 0 || config.Poll.ContainerLogInterval <= 0 || config.Poll.AppLogInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}

	if config.Update.RequestTimeout <= 0 {
		return fmt.Errorf("the update request timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[config.LogFormat] {
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	return nil
}
