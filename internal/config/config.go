package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all weave configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Season   SeasonConfig
}

type ServerConfig struct {
	Bind string
	Port int
}

type DatabaseConfig struct {
	Path string
}

type SeasonConfig struct {
	// RefreshHours is how often the background refresh runs.
	RefreshHours int
}

// Load reads configuration from ~/.weave/config.yaml (if present) and
// WEAVE_* environment variables, over the defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 38180)
	v.SetDefault("database.path", "")
	v.SetDefault("season.refresh_hours", 24)

	v.SetEnvPrefix("WEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".weave"))
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return Config{
		Server: ServerConfig{
			Bind: v.GetString("server.bind"),
			Port: v.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Season: SeasonConfig{
			RefreshHours: v.GetInt("season.refresh_hours"),
		},
	}, nil
}

// Default returns a Config with the built-in defaults, no file or env.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38180,
		},
		Season: SeasonConfig{
			RefreshHours: 24,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
