package uiconfig

import (
	"errors"
	"fmt"
	"strings"

	"dario.cat/mergo"
)

// MergeMode selects how an override mapping is applied over the defaults.
type MergeMode string

const (
	// MergeShallow replaces top-level keys wholesale. An override of
	// versionInfo that only names buildTime drops commit.
	MergeShallow MergeMode = "shallow"
	// MergeDeep merges nested mappings key by key.
	MergeDeep MergeMode = "deep"
)

// ErrUnknownMergeMode is returned for merge modes other than shallow or deep.
var ErrUnknownMergeMode = errors.New("unknown merge mode")

// ParseMergeMode parses a merge mode name. The empty string means shallow.
func ParseMergeMode(raw string) (MergeMode, error) {
	switch MergeMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MergeShallow:
		return MergeShallow, nil
	case MergeDeep:
		return MergeDeep, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMergeMode, raw)
	}
}

// Merge applies override over base and returns a new mapping. Neither input
// is modified. Keys missing from base are added.
func Merge(base, override Settings, mode MergeMode) (Settings, error) {
	out := cloneSettings(base)
	if out == nil {
		out = Settings{}
	}
	if len(override) == 0 {
		return out, nil
	}

	switch mode {
	case "", MergeShallow:
		for key, value := range override {
			out[key] = cloneValue(value)
		}
		return out, nil
	case MergeDeep:
		if err := mergo.Merge(&out, cloneSettings(override), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("deep merge override: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMergeMode, mode)
	}
}

func cloneSettings(src Settings) Settings {
	if src == nil {
		return nil
	}
	out := make(Settings, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case Settings:
		return map[string]any(cloneSettings(typed))
	case map[string]any:
		return map[string]any(cloneSettings(typed))
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
