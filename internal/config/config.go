// Package config provides YAML configuration for the router host:
// loading with environment substitution, validation, and hot reload.
package config

import "time"

// Config is the root configuration for the router host.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	CORS    CORSConfig    `yaml:"cors"`
	Static  []StaticMount `yaml:"static"`
}

// ServerConfig configures the hosting HTTP server.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	ReadTimeout  Duration `yaml:"readTimeout"`
	WriteTimeout Duration `yaml:"writeTimeout"`
	IdleTimeout  Duration `yaml:"idleTimeout"`
	MetricsPath  string   `yaml:"metricsPath"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// CORSConfig enables the wildcard OPTIONS preflight route.
type CORSConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StaticMount configures one static directory mount.
type StaticMount struct {
	BasePath       string `yaml:"basePath"`
	Dir            string `yaml:"dir"`
	ShowDirListing bool   `yaml:"showDirListing"`
	EnableCORS     bool   `yaml:"enableCors"`
	Quiet          bool   `yaml:"quiet"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(15 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
			MetricsPath:  "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}
