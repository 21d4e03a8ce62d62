package main

import (
	"net/http"
	"time"

	"github.com/vyrodovalexey/avarouter/internal/config"
	"github.com/vyrodovalexey/avarouter/internal/observability"
	"github.com/vyrodovalexey/avarouter/internal/response"
	"github.com/vyrodovalexey/avarouter/internal/router"
	"github.com/vyrodovalexey/avarouter/internal/server"
	"github.com/vyrodovalexey/avarouter/internal/static"
)

// application holds the running server and its dependencies.
type application struct {
	server    *server.Server
	logger    observability.Logger
	startTime time.Time
}

// healthStatus is the body of the health endpoint.
type healthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// newApplication builds the router from configuration and wraps it in
// a server.
func newApplication(cfg *config.Config, logger observability.Logger) (*application, error) {
	app := &application{
		logger:    logger,
		startTime: time.Now(),
	}

	rt, err := app.buildRouter(cfg)
	if err != nil {
		return nil, err
	}

	app.server = server.New(cfg.Server, rt, logger)
	return app, nil
}

// buildRouter constructs a route table from the configuration: the
// preflight route when CORS is enabled, the health endpoint, and the
// configured static mounts.
func (app *application) buildRouter(cfg *config.Config) (*router.Router, error) {
	rt := router.New(router.WithLogger(app.logger))

	if cfg.CORS.Enabled {
		rt.EnableCORS()
	}

	if err := rt.GET("/healthz", app.healthHandler); err != nil {
		return nil, err
	}

	for _, mount := range cfg.Static {
		opts := &static.Options{
			ShowDirListing: mount.ShowDirListing,
			EnableCORS:     mount.EnableCORS,
			Quiet:          mount.Quiet,
		}
		if err := rt.MountStatic(mount.BasePath, mount.Dir, opts); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

// healthHandler reports liveness with version and uptime.
func (app *application) healthHandler(_ *http.Request, b *response.Builder, _ router.Params, _ router.Query) (*response.Response, error) {
	return b.Status(http.StatusOK).Send(response.JSON(healthStatus{
		Status:  "healthy",
		Version: version,
		Uptime:  time.Since(app.startTime).Round(time.Second).String(),
	})), nil
}

// reload rebuilds the route table from a changed configuration and
// swaps it into the running server. Listener settings are not applied
// on reload.
func (app *application) reload(cfg *config.Config) error {
	rt, err := app.buildRouter(cfg)
	if err != nil {
		return err
	}

	app.server.SwapRouter(rt)
	app.logger.Info("route table reloaded",
		observability.Int("static_mounts", len(cfg.Static)),
		observability.Bool("cors", cfg.CORS.Enabled),
	)
	return nil
}
