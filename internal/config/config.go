// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"solagire-dashboard/internal/alerting"
	"solagire-dashboard/internal/auth"
	"solagire-dashboard/internal/data"
)

// EnvPrefix prefixes environment overrides, e.g. DASHBOARD_SERVER_PORT.
const EnvPrefix = "DASHBOARD"

type Config struct {
	Server struct {
		Port            int           `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Log struct {
		Level   string `mapstructure:"level"`
		NoColor bool   `mapstructure:"no_color"`
	} `mapstructure:"log"`
	Location  data.Location `mapstructure:"location"`
	Generator struct {
		Samples int           `mapstructure:"samples"`
		Spacing time.Duration `mapstructure:"spacing"`
		Seed    uint64        `mapstructure:"seed"` // 0 picks a random seed
	} `mapstructure:"generator"`
	Refresh struct {
		Interval time.Duration `mapstructure:"interval"` // 0 disables periodic refresh
	} `mapstructure:"refresh"`
	Storage struct {
		History int `mapstructure:"history"`
	} `mapstructure:"storage"`
	Alerts alerting.Thresholds `mapstructure:"alerts"`
	Auth   auth.Config         `mapstructure:"auth"`
}

// Load reads config.yaml from dir (if present), then .env and
// DASHBOARD_* environment variables. Every key has a default.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load() // optional

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.no_color", false)

	v.SetDefault("location.name", "Coimbra, Portugal")
	v.SetDefault("location.latitude", 40.2033)
	v.SetDefault("location.longitude", -8.4103)
	v.SetDefault("location.altitude", 100)

	v.SetDefault("generator.samples", 50)
	v.SetDefault("generator.spacing", 30*time.Minute)
	v.SetDefault("generator.seed", 0)

	v.SetDefault("refresh.interval", time.Minute)
	v.SetDefault("storage.history", 10)

	th := alerting.DefaultThresholds()
	v.SetDefault("alerts.soil_humidity_min", th.SoilHumidityMin)
	v.SetDefault("alerts.battery_level_min", th.BatteryLevelMin)
	v.SetDefault("alerts.soiling_irradiance_min", th.SoilingIrradianceMin)
	v.SetDefault("alerts.soiling_power_max", th.SoilingPowerMax)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration", 60)
	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("auth.users", []auth.User{})
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Generator.Samples < 1 {
		errs = append(errs, fmt.Errorf("generator.samples must be at least 1, got %d", c.Generator.Samples))
	}
	if c.Generator.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("generator.spacing must be positive, got %s", c.Generator.Spacing))
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errs = append(errs, fmt.Errorf("location.latitude %.4f out of range", c.Location.Latitude))
	}
	if c.Refresh.Interval < 0 {
		errs = append(errs, errors.New("refresh.interval must not be negative"))
	}
	if c.Storage.History < 1 {
		errs = append(errs, fmt.Errorf("storage.history must be at least 1, got %d", c.Storage.History))
	}
	if len(c.Auth.AllowedUsers) > 0 && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required when auth.users is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
