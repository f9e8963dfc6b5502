package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/eugenenazirov/ui-config/internal/uiconfig"
)

func TestMemorySourceReturnsCopy(t *testing.T) {
	t.Parallel()

	src := NewMemorySource(uiconfig.Settings{"edition": "Enterprise"})

	got, err := src.Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["edition"] != "Enterprise" {
		t.Fatalf("expected edition override, got %v", got)
	}

	// ensure mutation safety
	got["edition"] = "tampered"
	again, err := src.Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again["edition"] != "Enterprise" {
		t.Fatalf("expected defensive copy, got %v", again)
	}
}

func TestMemorySourceNil(t *testing.T) {
	t.Parallel()

	got, err := NewMemorySource(nil).Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty override, got %v", got)
	}
}

func TestMemorySourceConcurrentAccess(t *testing.T) {
	src := NewMemorySource(uiconfig.Settings{"allowFileUploads": true})
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)

		go func(offset int) {
			defer wg.Done()
			got, err := src.Overrides()
			if err != nil {
				t.Errorf("Overrides failed: %v", err)
				return
			}
			got["allowFileUploads"] = offset%2 == 0
		}(i)
	}

	wg.Wait()

	got, err := src.Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["allowFileUploads"] != true {
		t.Fatalf("expected stored override to be unaffected by readers, got %v", got)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		got, err := ParseOverrides([]byte(`{"edition": "Enterprise", "intercomAppId": null, "versionInfo": {"buildTime": 5}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got["edition"] != "Enterprise" {
			t.Fatalf("unexpected edition: %v", got["edition"])
		}
		if v, ok := got["intercomAppId"]; !ok || v != nil {
			t.Fatalf("expected explicit null intercomAppId, got %v (present=%v)", v, ok)
		}
		info, ok := got["versionInfo"].(map[string]any)
		if !ok || info["buildTime"] != 5 {
			t.Fatalf("unexpected versionInfo: %#v", got["versionInfo"])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		got, err := ParseOverrides([]byte("edition: Enterprise\nallowSpaceManagement: true\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got["allowSpaceManagement"] != true {
			t.Fatalf("unexpected allowSpaceManagement: %v", got["allowSpaceManagement"])
		}
	})

	t.Run("empty", func(t *testing.T) {
		for _, doc := range []string{"", "   \n", "null"} {
			got, err := ParseOverrides([]byte(doc))
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", doc, err)
			}
			if len(got) != 0 {
				t.Fatalf("expected empty override for %q, got %v", doc, got)
			}
		}
	})

	t.Run("not a mapping", func(t *testing.T) {
		for _, doc := range []string{"- a\n- b\n", "just a string", "[1, 2]"} {
			if _, err := ParseOverrides([]byte(doc)); !errors.Is(err, ErrInvalidOverride) {
				t.Fatalf("expected ErrInvalidOverride for %q, got %v", doc, err)
			}
		}
	})

	t.Run("non-string nested keys", func(t *testing.T) {
		got, err := ParseOverrides([]byte("versionInfo:\n  1: x\n  commit:\n    true: 2\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, ok := got["versionInfo"].(map[string]any)
		if !ok {
			t.Fatalf("expected string-keyed versionInfo, got %#v", got["versionInfo"])
		}
		if info["1"] != "x" {
			t.Fatalf("expected key 1 to become \"1\", got %#v", info)
		}
		if commit, ok := info["commit"].(map[string]any); !ok || commit["true"] != 2 {
			t.Fatalf("expected nested keys to be stringified, got %#v", info["commit"])
		}
		if _, err := json.Marshal(got); err != nil {
			t.Fatalf("expected override to encode as JSON: %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseOverrides([]byte("{edition: [")); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "override.json")
	if err := os.WriteFile(path, []byte(`{"edition": "Enterprise"}`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := NewFileSource(path).Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["edition"] != "Enterprise" {
		t.Fatalf("unexpected override: %v", got)
	}

	if got, err := NewFileSource("").Overrides(); err != nil || len(got) != 0 {
		t.Fatalf("expected empty override for empty path, got %v, %v", got, err)
	}

	if _, err := NewFileSource(filepath.Join(dir, "missing.yaml")).Overrides(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestChainSourceLaterWins(t *testing.T) {
	t.Parallel()

	chain := NewChainSource(uiconfig.MergeShallow,
		NewMemorySource(uiconfig.Settings{"edition": "Community", "authType": "ldap"}),
		nil,
		NewMemorySource(uiconfig.Settings{"edition": "Enterprise"}),
	)

	got, err := chain.Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["edition"] != "Enterprise" || got["authType"] != "ldap" {
		t.Fatalf("unexpected merged override: %v", got)
	}
}

func TestChainSourceHonorsMergeMode(t *testing.T) {
	t.Parallel()

	first := NewMemorySource(uiconfig.Settings{"versionInfo": map[string]any{"buildTime": 1}})
	second := NewMemorySource(uiconfig.Settings{"versionInfo": map[string]any{"commit": map[string]any{"time": 2}}})

	deep, err := NewChainSource(uiconfig.MergeDeep, first, second).Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := deep["versionInfo"].(map[string]any)
	if info["buildTime"] != 1 || info["commit"] == nil {
		t.Fatalf("expected deep chain to keep both nested keys, got %v", info)
	}

	shallow, err := NewChainSource(uiconfig.MergeShallow, first, second).Overrides()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info = shallow["versionInfo"].(map[string]any)
	if _, ok := info["buildTime"]; ok {
		t.Fatalf("expected shallow chain to replace versionInfo, got %v", info)
	}
}

func TestChainSourcePropagatesErrors(t *testing.T) {
	t.Parallel()

	chain := NewChainSource(uiconfig.MergeShallow, NewFileSource(filepath.Join(t.TempDir(), "missing.json")))
	if _, err := chain.Overrides(); err == nil {
		t.Fatalf("expected error from failing source")
	}
}
