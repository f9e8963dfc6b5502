package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/ui-config/internal/api"
	"github.com/eugenenazirov/ui-config/internal/config"
	"github.com/eugenenazirov/ui-config/internal/metrics"
	"github.com/eugenenazirov/ui-config/internal/storage"
	"github.com/eugenenazirov/ui-config/internal/uiconfig"
	"github.com/eugenenazirov/ui-config/internal/version"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	snapshot *uiconfig.Snapshot
	metrics  *metrics.Metrics
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// Option customises New.
type Option func(*options)

type options struct {
	env      uiconfig.Environment
	uiOpts   []uiconfig.Option
	override storage.OverrideSource
}

// WithEnvironment replaces the process environment the snapshot is derived from.
func WithEnvironment(env uiconfig.Environment) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithSnapshotOptions forwards options to uiconfig.Load.
func WithSnapshotOptions(opts ...uiconfig.Option) Option {
	return func(o *options) {
		o.uiOpts = append(o.uiOpts, opts...)
	}
}

// WithOverrideSource replaces the override sources derived from the configuration.
func WithOverrideSource(src storage.OverrideSource) Option {
	return func(o *options) {
		o.override = src
	}
}

// New builds the UI configuration snapshot and initializes all dependencies
// from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := options{
		env:      uiconfig.OSEnvironment{},
		override: OverrideSource(cfg),
	}
	for _, opt := range opts {
		opt(&o)
	}

	overrides, err := o.override.Overrides()
	if err != nil {
		return nil, fmt.Errorf("failed to read host override: %w", err)
	}

	uiOpts := append([]uiconfig.Option{
		uiconfig.WithMergeMode(cfg.MergeMode),
		uiconfig.WithVersionInfo(version.Get().VersionInfo()),
	}, o.uiOpts...)

	snapshot, err := uiconfig.Load(o.env, overrides, uiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build UI configuration: %w", err)
	}

	logger.Info("ui configuration loaded",
		zap.Bool("production", snapshot.IsProduction()),
		zap.String("edition", snapshot.String(uiconfig.KeyEdition)),
		zap.Strings("override_keys", snapshot.OverrideKeys()),
		zap.String("merge_mode", string(cfg.MergeMode)),
	)

	m := metrics.New()
	m.ObserveSnapshot(snapshot)

	handler := api.NewHandler(snapshot)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(m),
	)

	server := NewServer(cfg, BuildRootHandler(apiRouter, m.Handler()))

	return &App{
		snapshot: snapshot,
		metrics:  m,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   server,
	}, nil
}

// OverrideSource returns the host override sources named by cfg: the
// override file first, then the inline ui_overrides mapping, combined with
// the configured merge mode.
func OverrideSource(cfg config.Config) storage.OverrideSource {
	return storage.NewChainSource(cfg.MergeMode,
		storage.NewFileSource(cfg.OverrideFile),
		storage.NewMemorySource(cfg.Overrides),
	)
}

// BuildRootHandler routes the UI-facing endpoints to the API handler and
// /metrics to the metrics handler, which bypasses rate limiting.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/config.js", apiHandler)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	mux.Handle("/", http.HandlerFunc(http.NotFound))
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Snapshot returns the UI configuration served by the application.
func (a *App) Snapshot() *uiconfig.Snapshot {
	return a.snapshot
}
