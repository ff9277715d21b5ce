/*
Package config loads the service configuration.

SOURCES (later wins):
  1. built-in defaults (setDefaults)
  2. .env in the working directory, copied into the process environment
  3. config.yml in the directory given to Load, when present
  4. environment variables prefixed SHIFT_, dots replaced by underscores
     (SHIFT_DATABASE_PATH, SHIFT_HORIZON_DAYS, ...)

The result is validated with struct tags before it is returned.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "SHIFT"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Horizon    HorizonConfig    `mapstructure:"horizon"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"required,min=1s"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"required,min=1s"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"required,min=1s"`
}

type DatabaseConfig struct {
	// Path of the SQLite file, or ":memory:".
	Path string `mapstructure:"path" validate:"required"`
}

type LoggingConfig struct {
	Env string `mapstructure:"env" validate:"required,oneof=development production test"`
}

type SchedulingConfig struct {
	FallbackStationCode string   `mapstructure:"fallback_station_code" validate:"required"`
	GenericRoleTokens   []string `mapstructure:"generic_role_tokens" validate:"dive,required"`
}

type HorizonConfig struct {
	ConstrainedRole string `mapstructure:"constrained_role" validate:"required"`
	Days            int    `mapstructure:"days" validate:"min=0"`
}

// Addr is the listen address for the HTTP server.
func (c ServerConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.path", "shifts.db")

	v.SetDefault("logging.env", "development")

	v.SetDefault("scheduling.fallback_station_code", "CORTILE")
	v.SetDefault("scheduling.generic_role_tokens", []string{"operatore", "generico"})

	v.SetDefault("horizon.constrained_role", "coordinator")
	v.SetDefault("horizon.days", 10)
}

// Load reads configuration. An empty path skips the config file lookup.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
