package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avarouter/internal/config"
	"github.com/vyrodovalexey/avarouter/internal/response"
	"github.com/vyrodovalexey/avarouter/internal/router"
)

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()

	r := router.New()
	err := r.GET("/ping", func(_ *http.Request, b *response.Builder, _ router.Params, _ router.Query) (*response.Response, error) {
		return b.Status(http.StatusOK).Send(response.Text("pong")), nil
	})
	require.NoError(t, err)

	return r
}

func TestServeHTTP_DispatchesToRouter(t *testing.T) {
	t.Parallel()

	s := New(config.DefaultConfig().Server, newTestRouter(t), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, response.DefaultContentType, rec.Header().Get("Content-Type"))
}

func TestServeHTTP_NotFound(t *testing.T) {
	t.Parallel()

	s := New(config.DefaultConfig().Server, newTestRouter(t), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404", rec.Body.String())
}

func TestServeHTTP_GeneratesRequestID(t *testing.T) {
	t.Parallel()

	s := New(config.DefaultConfig().Server, newTestRouter(t), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestServeHTTP_ReusesInboundRequestID(t *testing.T) {
	t.Parallel()

	s := New(config.DefaultConfig().Server, newTestRouter(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied-id", rec.Header().Get(RequestIDHeader))
}

func TestSwapRouter(t *testing.T) {
	t.Parallel()

	s := New(config.DefaultConfig().Server, newTestRouter(t), nil)

	replacement := router.New()
	err := replacement.GET("/ping", func(_ *http.Request, b *response.Builder, _ router.Params, _ router.Query) (*response.Response, error) {
		return b.Status(http.StatusOK).Send(response.Text("swapped")), nil
	})
	require.NoError(t, err)

	s.SwapRouter(replacement)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "swapped", rec.Body.String())
}

func TestHandler_ServesMetricsEndpoint(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig().Server
	s := New(cfg, newTestRouter(t), nil)
	h := s.handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, cfg.MetricsPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", rec.Body.String())
}

func TestIsRunning_InitiallyFalse(t *testing.T) {
	t.Parallel()

	s := New(config.DefaultConfig().Server, newTestRouter(t), nil)
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(context.Background()))
}
