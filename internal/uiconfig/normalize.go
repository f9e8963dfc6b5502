package uiconfig

import "fmt"

// NormalizeSettings returns a copy of s in which every nested mapping is a
// map[string]any. YAML decoders produce map[any]any for mappings with
// non-string keys; those keys are converted with fmt.Sprint.
func NormalizeSettings(s Settings) Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for key, value := range s {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(v any) any {
	switch typed := v.(type) {
	case Settings:
		return map[string]any(NormalizeSettings(typed))
	case map[string]any:
		return map[string]any(NormalizeSettings(typed))
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[fmt.Sprint(key)] = normalizeValue(value)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
