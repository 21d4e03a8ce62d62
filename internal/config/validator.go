package config

import (
	"strings"

	"github.com/vyrodovalexey/avarouter/internal/util"
)

// ValidateConfig checks a loaded configuration, failing fast on
// invalid values so problems surface at startup, never at dispatch.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return util.NewConfigError("", "configuration is nil")
	}

	if cfg.Server.Addr == "" {
		return util.NewConfigError("server.addr", "must not be empty")
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		return util.NewConfigError("server", "timeouts must not be negative")
	}
	if cfg.Server.MetricsPath != "" && !strings.HasPrefix(cfg.Server.MetricsPath, "/") {
		return util.NewConfigError("server.metricsPath", "must start with '/'")
	}

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return util.NewConfigError("logging.level", "unknown level "+cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "", "json", "console":
	default:
		return util.NewConfigError("logging.format", "unknown format "+cfg.Logging.Format)
	}

	seen := make(map[string]bool)
	for _, mount := range cfg.Static {
		if !strings.HasPrefix(mount.BasePath, "/") {
			return util.NewConfigError("static.basePath", "must start with '/'")
		}
		if mount.Dir == "" {
			return util.NewConfigError("static.dir", "must not be empty")
		}
		base := strings.TrimSuffix(mount.BasePath, "/")
		if seen[base] {
			return util.NewConfigError("static.basePath", "duplicate mount "+mount.BasePath)
		}
		seen[base] = true
	}

	return nil
}
