package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/ui-config/internal/application"
	"github.com/eugenenazirov/ui-config/internal/config"
	"github.com/eugenenazirov/ui-config/internal/logging"
	"github.com/eugenenazirov/ui-config/internal/version"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("ui-config-server", "UI Config Server - serves the runtime configuration of the web UI")
	kingpinApp.Version(version.Get().String())
	overrides := registerFlags(kingpinApp)

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(overrides())
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// registerFlags declares the command-line flags on app and returns a function
// that converts the parsed values into config overrides.
func registerFlags(app *kingpin.Application) func() *config.CLIOverrides {
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	port := app.Flag("port", "HTTP port exposed by the service").String()
	overrideFile := app.Flag("override-file", "Path to a YAML or JSON host override for the UI settings").String()
	mergeMode := app.Flag("merge-mode", "How the host override is applied (shallow or deep)").String()
	rateLimitRPSFlag := app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").String()

	return func() *config.CLIOverrides {
		overrides := &config.CLIOverrides{
			ConfigFile: *configFile,
		}

		if *port != "" {
			overrides.Port = port
		}

		if *overrideFile != "" {
			overrides.OverrideFile = overrideFile
		}

		if *mergeMode != "" {
			overrides.MergeMode = mergeMode
		}

		if *rateLimitRPSFlag >= 0 {
			overrides.RateLimitRPS = rateLimitRPSFlag
		}

		if *rateLimitBurstFlag >= 0 {
			overrides.RateLimitBurst = rateLimitBurstFlag
		}

		if *logLevel != "" {
			overrides.LogLevel = logLevel
		}

		return overrides
	}
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
