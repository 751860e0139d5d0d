// Package config loads the service configuration from configs/config.yml and
// COLDSPEC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "COLDSPEC"

// Config is the typed view of every setting the service reads.
type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	UsersFile       string
	SkusFile        string
	TemperatureFile string
	NCFile          string

	SigningKey string
	TokenTTL   time.Duration

	ChartWindow    time.Duration
	StreamInterval time.Duration
	SweepInterval  time.Duration
}

// setDefaults registers a value for every key so a missing config file still
// yields a runnable service.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("files.users", "users.csv")
	v.SetDefault("files.skus", "sku (1).csv")
	v.SetDefault("files.temperature", "dados_temperatura.csv")
	v.SetDefault("files.nc", "dados_nao_conformidade.csv")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("chart.window", "168h")
	v.SetDefault("ws.interval", "5s")
	v.SetDefault("sessions.sweep_interval", "1m")
}

// New returns a viper instance with defaults, env overrides and the configs/
// search path registered. Config paths are tried in order before "configs".
func New(paths ...string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("configs") // configs/config.yml
	return v
}

// Read loads the config file. found is false when no file exists, which is
// not an error: defaults and environment still apply.
func Read(v *viper.Viper) (found bool, err error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("read config: %w", err)
	}
	return true, nil
}

// FromViper builds a Config from v. Durations must parse.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:            v.GetString("port"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		DBPath:          v.GetString("db.path"),
		UsersFile:       v.GetString("files.users"),
		SkusFile:        v.GetString("files.skus"),
		TemperatureFile: v.GetString("files.temperature"),
		NCFile:          v.GetString("files.nc"),
		SigningKey:      v.GetString("auth.signing_key"),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"auth.token_ttl", &cfg.TokenTTL},
		{"chart.window", &cfg.ChartWindow},
		{"ws.interval", &cfg.StreamInterval},
		{"sessions.sweep_interval", &cfg.SweepInterval},
	}
	for _, d := range durations {
		val, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.key, err)
		}
		if val <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %s", d.key, val)
		}
		*d.dst = val
	}
	return cfg, nil
}

// Load is New, Read and FromViper in one call.
func Load(paths ...string) (Config, bool, error) {
	v := New(paths...)
	found, err := Read(v)
	if err != nil {
		return Config{}, false, err
	}
	cfg, err := FromViper(v)
	return cfg, found, err
}
