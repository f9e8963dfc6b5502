package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/ui-config/internal/uiconfig"
)

var (
	// ErrInvalidOverride indicates an override document whose top level is not a mapping.
	ErrInvalidOverride = errors.New("host override must be a mapping of setting names to values")
)

// OverrideSource provides the host override applied over the UI defaults.
type OverrideSource interface {
	Overrides() (uiconfig.Settings, error)
}

// MemorySource keeps an override in-memory and guards access with a RWMutex.
type MemorySource struct {
	mu        sync.RWMutex
	overrides uiconfig.Settings
}

// NewMemorySource initialises the source with a copy of overrides.
func NewMemorySource(overrides uiconfig.Settings) *MemorySource {
	return &MemorySource{
		overrides: cloneShallow(overrides),
	}
}

// Overrides returns a copy of the stored override.
func (s *MemorySource) Overrides() (uiconfig.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneShallow(s.overrides), nil
}

// FileSource reads an override from a YAML or JSON document.
type FileSource struct {
	path string
}

// NewFileSource returns a source for path. An empty path yields no override.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Overrides reads and parses the file on every call.
func (s *FileSource) Overrides() (uiconfig.Settings, error) {
	if s.path == "" {
		return uiconfig.Settings{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read override file: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes a YAML or JSON mapping. An empty document is an
// empty override.
func ParseOverrides(data []byte) (uiconfig.Settings, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse override: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return uiconfig.Settings{}, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return uiconfig.Settings{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrInvalidOverride
	}

	overrides := uiconfig.Settings{}
	if err := root.Decode(&overrides); err != nil {
		return nil, fmt.Errorf("decode override: %w", err)
	}
	return uiconfig.NormalizeSettings(overrides), nil
}

// ChainSource combines sources; later sources take precedence using the
// same merge mode as the snapshot.
type ChainSource struct {
	Sources []OverrideSource
	Mode    uiconfig.MergeMode
}

// NewChainSource returns a chain applying sources in order with mode.
func NewChainSource(mode uiconfig.MergeMode, sources ...OverrideSource) *ChainSource {
	return &ChainSource{Sources: sources, Mode: mode}
}

// Overrides merges every source in order.
func (c *ChainSource) Overrides() (uiconfig.Settings, error) {
	out := uiconfig.Settings{}
	for _, src := range c.Sources {
		if src == nil {
			continue
		}
		overrides, err := src.Overrides()
		if err != nil {
			return nil, err
		}
		out, err = uiconfig.Merge(out, overrides, c.Mode)
		if err != nil {
			return nil, fmt.Errorf("merge override sources: %w", err)
		}
	}
	return out, nil
}

func cloneShallow(src uiconfig.Settings) uiconfig.Settings {
	out := make(uiconfig.Settings, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
