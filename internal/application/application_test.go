package application

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/ui-config/internal/config"
	"github.com/eugenenazirov/ui-config/internal/storage"
	"github.com/eugenenazirov/ui-config/internal/uiconfig"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	cfg.Overrides = uiconfig.Settings{"edition": "Enterprise"}
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger, WithEnvironment(uiconfig.MapEnvironment{uiconfig.EnvBuildMode: "production"}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	snap := app.Snapshot()
	if snap.String(uiconfig.KeyEdition) != "Enterprise" {
		t.Fatalf("expected edition override, got %s", snap.String(uiconfig.KeyEdition))
	}
	if !snap.IsProduction() || snap.Bool(uiconfig.KeyShouldEnableBugFiling) {
		t.Fatalf("expected production snapshot")
	}
	if app.server == nil || app.router == nil || app.handler == nil || app.metrics == nil {
		t.Fatalf("expected server, router, handler and metrics to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewReadsOverrideFileBeforeInlineOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.json")
	if err := os.WriteFile(path, []byte(`{"edition": "FromFile", "authType": "ldap"}`), 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cfg := baseTestConfig(":0")
	cfg.OverrideFile = path
	cfg.Overrides = uiconfig.Settings{"edition": "Inline"}

	app, err := New(cfg, zaptest.NewLogger(t), WithEnvironment(uiconfig.MapEnvironment{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	snap := app.Snapshot()
	if snap.String(uiconfig.KeyEdition) != "Inline" || snap.String(uiconfig.KeyAuthType) != "ldap" {
		t.Fatalf("unexpected merged override: edition=%s authType=%s", snap.String(uiconfig.KeyEdition), snap.String(uiconfig.KeyAuthType))
	}
}

func TestNewReturnsErrorForMissingOverrideFile(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.OverrideFile = filepath.Join(t.TempDir(), "missing.json")

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing override file")
	}
}

func TestNewReturnsErrorForInvalidMergeMode(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.MergeMode = uiconfig.MergeMode("sideways")
	cfg.Overrides = uiconfig.Settings{"edition": "Enterprise"}

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for invalid merge mode")
	}
}

func TestNewDeepMergesFileAndInlineOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("versionInfo:\n  buildTime: 5\n"), 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cfg := baseTestConfig(":0")
	cfg.MergeMode = uiconfig.MergeDeep
	cfg.OverrideFile = path
	cfg.Overrides = uiconfig.Settings{"versionInfo": map[string]any{"commit": map[string]any{"time": 7}}}

	app, err := New(cfg, zaptest.NewLogger(t), WithEnvironment(uiconfig.MapEnvironment{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var typed uiconfig.Configuration
	if err := app.Snapshot().Decode(&typed); err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if typed.VersionInfo.BuildTime != 5 || typed.VersionInfo.Commit.Time != 7 {
		t.Fatalf("expected file and inline versionInfo keys to survive, got %+v", typed.VersionInfo)
	}
}

func TestNewFailsOnUnencodableOverride(t *testing.T) {
	src := storage.NewMemorySource(uiconfig.Settings{"versionInfo": map[any]any{1: "x"}})

	_, err := New(baseTestConfig(":0"), zaptest.NewLogger(t),
		WithEnvironment(uiconfig.MapEnvironment{}),
		WithOverrideSource(src),
	)
	if !errors.Is(err, uiconfig.ErrUnencodableSetting) {
		t.Fatalf("expected ErrUnencodableSetting, got %v", err)
	}
}

func TestNewWithOverrideSourceAndSnapshotOptions(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))
	src := storage.NewMemorySource(uiconfig.Settings{"allowSpaceManagement": true})

	app, err := New(baseTestConfig(":0"), zaptest.NewLogger(t),
		WithEnvironment(uiconfig.MapEnvironment{}),
		WithOverrideSource(src),
		WithSnapshotOptions(uiconfig.WithClock(clock)),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	snap := app.Snapshot()
	if !snap.Bool(uiconfig.KeyAllowSpaceManagement) {
		t.Fatalf("expected override source to be applied")
	}
	if !snap.CreatedAt().Equal(clock.Now()) {
		t.Fatalf("expected snapshot clock to be applied")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestServerHandlerEndToEnd(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.Overrides = uiconfig.Settings{"edition": "Enterprise"}

	app, err := New(cfg, zaptest.NewLogger(t), WithEnvironment(uiconfig.MapEnvironment{
		uiconfig.EnvBuildMode:  "production",
		uiconfig.EnvSkipSentry: "true",
	}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	srv := httptest.NewServer(app.Server().Handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/config")
	if err != nil {
		t.Fatalf("GET /api/config: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if body["edition"] != "Enterprise" || body["logErrorsToSentry"] != false || body["shouldEnableRSOD"] != false {
		t.Fatalf("unexpected config: %v", body)
	}

	script, err := http.Get(srv.URL + "/config.js")
	if err != nil {
		t.Fatalf("GET /config.js: %v", err)
	}
	script.Body.Close()
	if script.StatusCode != http.StatusOK {
		t.Fatalf("expected config.js to be served, got %d", script.StatusCode)
	}

	metricsResp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer metricsResp.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, metricsResp.Body); err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(buf.String(), `ui_config_info{edition="Enterprise",production="true",server_status="OK"} 1`) {
		t.Fatalf("expected ui_config_info series, got:\n%s", buf.String())
	}

	missing, err := http.Get(srv.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", missing.StatusCode)
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		MergeMode:            uiconfig.MergeShallow,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
		LogLevel:             "info",
	}
}
