package uiconfig

import (
	"fmt"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
)

// Environment variables read while building a snapshot.
const (
	EnvBuildMode  = "NODE_ENV"
	EnvRelease    = "DREMIO_RELEASE"
	EnvSkipSentry = "SKIP_SENTRY_STEP"
)

const (
	buildModeProduction = "production"
	flagTrue            = "true"
)

// Environment supplies the variables a snapshot is derived from.
type Environment interface {
	Environ() map[string]string
}

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

// Environ returns the current process environment as a map.
func (OSEnvironment) Environ() map[string]string {
	return env.ToMap(os.Environ())
}

// MapEnvironment is a fixed environment, used by tests and embedders that
// must not depend on the process environment.
type MapEnvironment map[string]string

// Environ returns a copy of the map.
func (m MapEnvironment) Environ() map[string]string {
	return maps.Clone(map[string]string(m))
}

// BuildEnv holds the raw build variables. Only exact string matches change
// behaviour; unset and malformed values take the default branch.
type BuildEnv struct {
	BuildMode  string `env:"NODE_ENV"`
	Release    string `env:"DREMIO_RELEASE"`
	SkipSentry string `env:"SKIP_SENTRY_STEP"`
}

// ParseBuildEnv extracts the build variables from e. A nil Environment is
// treated as empty.
func ParseBuildEnv(e Environment) (BuildEnv, error) {
	var vars map[string]string
	if e != nil {
		vars = e.Environ()
	}
	if vars == nil {
		// env.Options falls back to os.Environ for a nil map.
		vars = map[string]string{}
	}

	var be BuildEnv
	if err := env.ParseWithOptions(&be, env.Options{Environment: vars}); err != nil {
		return BuildEnv{}, fmt.Errorf("parse build environment: %w", err)
	}
	return be, nil
}

// IsProduction reports whether the build mode is exactly "production".
func (b BuildEnv) IsProduction() bool {
	return b.BuildMode == buildModeProduction
}

// IsReleaseBuild reports whether the release flag is exactly "true".
func (b BuildEnv) IsReleaseBuild() bool {
	return b.Release == flagTrue
}

// LogErrorsToSentry is true unless the skip flag is exactly "true".
func (b BuildEnv) LogErrorsToSentry() bool {
	return b.SkipSentry != flagTrue
}
