package uiconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/jonboulle/clockwork"
)

// ErrUnencodableSetting is returned by Load when the merged settings cannot be
// encoded as JSON.
var ErrUnencodableSetting = errors.New("setting cannot be encoded as JSON")

// Option customises Load.
type Option func(*loadOptions)

type loadOptions struct {
	clock       clockwork.Clock
	mode        MergeMode
	versionInfo VersionInfo
}

// WithClock sets the clock used for ts, primarily for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(o *loadOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMergeMode selects how the override is applied. Shallow is the default.
func WithMergeMode(mode MergeMode) Option {
	return func(o *loadOptions) {
		o.mode = mode
	}
}

// WithVersionInfo replaces the epoch defaults of versionInfo.
func WithVersionInfo(info VersionInfo) Option {
	return func(o *loadOptions) {
		o.versionInfo = info
	}
}

// Load builds a snapshot from the defaults, the flags derived from env and
// the override. A nil env reads nothing and a nil override merges nothing.
// Shallow merging never fails.
func Load(env Environment, override Settings, opts ...Option) (*Snapshot, error) {
	o := loadOptions{
		clock: clockwork.NewRealClock(),
		mode:  MergeShallow,
	}
	for _, opt := range opts {
		opt(&o)
	}

	be, err := ParseBuildEnv(env)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	cfg := Defaults(be, now)
	cfg.VersionInfo = o.versionInfo

	settings, err := Merge(cfg.Settings(), override, o.mode)
	if err != nil {
		return nil, fmt.Errorf("apply host override: %w", err)
	}
	// Snapshots are served as JSON.
	if _, err := json.Marshal(settings); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnencodableSetting, err)
	}

	overrideKeys := make([]string, 0, len(override))
	for key := range override {
		overrideKeys = append(overrideKeys, key)
	}
	slices.Sort(overrideKeys)

	return &Snapshot{
		settings:     settings,
		build:        be,
		createdAt:    now,
		overrideKeys: overrideKeys,
	}, nil
}

// Captured at package initialization, before main runs.
var (
	isProductionBuild = detectProduction()
	defaultSnapshot   = buildDefault()
)

func detectProduction() bool {
	be, err := ParseBuildEnv(OSEnvironment{})
	if err != nil {
		return false
	}
	return be.IsProduction()
}

func buildDefault() *Snapshot {
	snap, err := Load(OSEnvironment{}, nil)
	if err != nil {
		// Only reachable if BuildEnv gains a required field.
		cfg := Defaults(BuildEnv{}, clockwork.NewRealClock().Now())
		return &Snapshot{settings: cfg.Settings(), createdAt: cfg.TS}
	}
	return snap
}

// IsProduction reports whether NODE_ENV was exactly "production" when the
// package was initialized. The answer does not change for the process lifetime.
func IsProduction() bool {
	return isProductionBuild
}

// Default returns the process-wide snapshot built at package initialization
// from the process environment with no override.
func Default() *Snapshot {
	return defaultSnapshot
}
