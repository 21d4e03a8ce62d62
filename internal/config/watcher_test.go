package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avarouter/internal/observability"
)

func TestWatcherInitialLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, sampleConfig)

	w, err := NewWatcher(path, nil, WithLogger(observability.NopLogger()))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	cfg := w.GetLastConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestWatcherInitialLoadInvalid(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "server:\n  addr: \"\"\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.Error(t, w.Start(context.Background()))
}

func TestWatcherReloadOnChange(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, sampleConfig)

	var reloads atomic.Int64
	updated := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		reloads.Add(1)
		select {
		case updated <- cfg:
		default:
		}
	}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7171\"\n"), 0o600))

	select {
	case cfg := <-updated:
		assert.Equal(t, ":7171", cfg.Server.Addr)
		assert.Equal(t, ":7171", w.GetLastConfig().Server.Addr)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcherRejectsInvalidReload(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, sampleConfig)

	failures := make(chan error, 1)
	w, err := NewWatcher(path, nil,
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(err error) {
			select {
			case failures <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \"\"\n"), 0o600))

	select {
	case <-failures:
		// Last good configuration is retained.
		assert.Equal(t, ":9090", w.GetLastConfig().Server.Addr)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload error")
	}
}

func TestForceReload(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, sampleConfig)

	var calls atomic.Int64
	w, err := NewWatcher(path, func(*Config) { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, w.ForceReload())
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, ":9090", w.GetLastConfig().Server.Addr)
}
