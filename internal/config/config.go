package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/comigor/lovechest/internal/messages"
	"github.com/comigor/lovechest/internal/storage"
)

// Config holds the application configuration
type Config struct {
	Log      LogConfig
	Server   ServerConfig
	Storage  StorageConfig
	Chest    ChestConfig
	Messages []string `mapstructure:"messages"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

// StorageConfig selects where the chest keeps its record
type StorageConfig struct {
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	Profile string `mapstructure:"profile"`
}

// ChestConfig holds the unlock settings
type ChestConfig struct {
	// Timezone whose calendar day gates unlocking; empty means local time.
	Timezone      string        `mapstructure:"timezone"`
	RevealTimeout time.Duration `mapstructure:"reveal_timeout"`
}

// Location resolves Timezone.
func (c ChestConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("storage.driver", storage.DriverSQLite)
	v.SetDefault("storage.path", "lovechest.db")
	v.SetDefault("storage.profile", storage.DefaultProfile)
	v.SetDefault("chest.timezone", "")
	v.SetDefault("chest.reveal_timeout", "2500ms")
	v.SetDefault("messages", messages.Default)
}

// Load loads the configuration. path wins over the CONFIG_PATH environment
// variable; with neither, config.yaml is looked up in the working directory
// and defaults apply when it is absent. LOVECHEST_* variables override keys,
// e.g. LOVECHEST_STORAGE_DRIVER=memory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("lovechest")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if _, err := messages.NewPool(c.Messages); err != nil {
		return fmt.Errorf("config: messages: %w", err)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case storage.DriverSQLite, storage.DriverMemory:
	default:
		return fmt.Errorf("config: storage.driver %q is not one of sqlite, memory", c.Storage.Driver)
	}
	if _, err := c.Chest.Location(); err != nil {
		return fmt.Errorf("config: chest.timezone: %w", err)
	}
	if c.Chest.RevealTimeout <= 0 {
		return fmt.Errorf("config: chest.reveal_timeout must be positive, got %s", c.Chest.RevealTimeout)
	}
	return nil
}
