package uiconfig

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Snapshot is an immutable, fully merged configuration. It is safe for
// concurrent use; every accessor hands out copies.
type Snapshot struct {
	settings     Settings
	build        BuildEnv
	createdAt    time.Time
	overrideKeys []string
}

// IsProduction reports the build mode captured when the snapshot was built.
// Overrides of the derived flags do not change it.
func (s *Snapshot) IsProduction() bool {
	return s.build.IsProduction()
}

// CreatedAt returns the construction time, the same instant stored under ts
// unless the override replaced it.
func (s *Snapshot) CreatedAt() time.Time {
	return s.createdAt
}

// Settings returns a deep copy of the merged mapping.
func (s *Snapshot) Settings() Settings {
	return cloneSettings(s.settings)
}

// Value returns a copy of the value stored under key.
func (s *Snapshot) Value(key string) (any, bool) {
	v, ok := s.settings[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Bool returns the boolean stored under key, false when absent or not a bool.
func (s *Snapshot) Bool(key string) bool {
	v, _ := s.settings[key].(bool)
	return v
}

// String returns the string stored under key, "" when absent or not a string.
func (s *Snapshot) String(key string) string {
	v, _ := s.settings[key].(string)
	return v
}

// Keys returns the sorted setting names.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.settings))
	for key := range s.settings {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// OverrideKeys returns the sorted top-level keys supplied by the host override.
func (s *Snapshot) OverrideKeys() []string {
	return slices.Clone(s.overrideKeys)
}

// Decode unmarshals the merged mapping into v, usually a *Configuration.
// Unknown override keys are ignored by the typed view.
func (s *Snapshot) Decode(v any) error {
	raw, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	return nil
}

// MarshalJSON encodes the merged mapping.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.settings)
}
