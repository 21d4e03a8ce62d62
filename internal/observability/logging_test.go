package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{
			name: "default config",
			cfg:  DefaultLogConfig(),
		},
		{
			name: "console format",
			cfg:  LogConfig{Level: "debug", Format: "console", Output: "stderr"},
		},
		{
			name:    "invalid level",
			cfg:     LogConfig{Level: "nope", Format: "json", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info("message", String("key", "value"))
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	logger := NopLogger()

	// No request ID: the same logger comes back.
	same := logger.WithContext(context.Background())
	assert.Equal(t, logger, same)

	ctx := ContextWithRequestID(context.Background(), "req-456")
	enriched := logger.WithContext(ctx)
	require.NotNil(t, enriched)
	enriched.Info("still works")
}

func TestGlobalLogger(t *testing.T) {
	logger := NopLogger()
	SetGlobalLogger(logger)
	assert.Equal(t, logger, GetGlobalLogger())
	assert.Equal(t, logger, L())
}
