package config

// mergeLayers folds a cascade of layers, lowest precedence first, into a
// single candidate record. The result shares no structure with its
// inputs, so resolving the same raw tree twice yields independent,
// deep-equal candidates.
func mergeLayers(layers ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		mergeTree(result, layer)
	}
	return result
}

// mergeTree merges overlay into base, which must be privately owned by
// the caller. Mappings merge key by key recursively. Everything else,
// arrays included, replaces wholesale: an explicit processor list must
// not silently inherit unrelated entries from a lower layer.
func mergeTree(base, overlay map[string]any) {
	for key, value := range overlay {
		baseMap, baseOK := base[key].(map[string]any)
		overlayMap, overlayOK := value.(map[string]any)
		if baseOK && overlayOK {
			mergeTree(baseMap, overlayMap)
			continue
		}
		base[key] = copyValue(value)
	}
}

// copyTree returns a deep copy of a generic mapping
func copyTree(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

// copyValue returns a deep copy of a generic tree value. Scalars are
// returned as-is.
func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return copyTree(tv)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
