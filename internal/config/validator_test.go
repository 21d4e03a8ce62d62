package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avarouter/internal/util"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = Duration(-time.Second) },
			wantErr: "server",
		},
		{
			name:    "relative metrics path",
			mutate:  func(c *Config) { c.Server.MetricsPath = "metrics" },
			wantErr: "server.metricsPath",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name: "static mount without leading slash",
			mutate: func(c *Config) {
				c.Static = []StaticMount{{BasePath: "assets", Dir: "./public"}}
			},
			wantErr: "static.basePath",
		},
		{
			name: "static mount without dir",
			mutate: func(c *Config) {
				c.Static = []StaticMount{{BasePath: "/assets"}}
			},
			wantErr: "static.dir",
		},
		{
			name: "duplicate static mounts",
			mutate: func(c *Config) {
				c.Static = []StaticMount{
					{BasePath: "/assets", Dir: "./a"},
					{BasePath: "/assets/", Dir: "./b"},
				}
			},
			wantErr: "static.basePath",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrConfigInvalid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	t.Parallel()

	require.Error(t, ValidateConfig(nil))
}
