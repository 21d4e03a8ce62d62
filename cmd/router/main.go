// Package main is the entry point for the router server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vyrodovalexey/avarouter/internal/config"
	"github.com/vyrodovalexey/avarouter/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadAndValidateConfig(flags.configPath, logger)
	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", observability.Error(err))
	}

	run(app, flags.configPath, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("ROUTER_CONFIG_PATH", "configs/router.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("ROUTER_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("ROUTER_LOG_FORMAT", "json"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("avarouter version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// loadAndValidateConfig loads and validates the configuration. A
// missing config file is not fatal; the defaults serve a bare router.
func loadAndValidateConfig(configPath string, logger observability.Logger) *config.Config {
	logger.Info("starting avarouter",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Warn("config file not found, using defaults",
			observability.String("config", configPath))
		return config.DefaultConfig()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Fatal("invalid configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.String("address", cfg.Server.Addr),
		observability.Bool("cors", cfg.CORS.Enabled),
		observability.Int("static_mounts", len(cfg.Static)),
	)

	return cfg
}

// run starts the server and blocks until a shutdown signal arrives.
func run(app *application, configPath string, logger observability.Logger) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start(context.Background())
	}()

	watcher := startConfigWatcher(app, configPath, logger)

	waitForShutdown(app, watcher, errCh, logger)
}

// startConfigWatcher starts the configuration watcher. Reloads rebuild
// the route table in place; server address or timeout changes need a
// restart and only log a notice.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.Info("configuration changed, reloading")
		if reloadErr := app.reload(newCfg); reloadErr != nil {
			logger.Error("failed to reload configuration", observability.Error(reloadErr))
		}
	}, config.WithLogger(logger))

	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
	}

	return watcher
}

// waitForShutdown waits for a shutdown signal or server failure and
// performs graceful shutdown.
func waitForShutdown(app *application, watcher *config.Watcher, errCh <-chan error, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", observability.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", observability.Error(err))
		}
	}

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logger.Warn("failed to stop config watcher", observability.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Stop(ctx); err != nil {
		logger.Error("failed to stop server", observability.Error(err))
	}

	logger.Info("shutdown complete")
}
