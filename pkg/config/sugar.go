package config

// Terse component declarations name the component through their only
// unrecognized key instead of an explicit id:
//
//	- readme:
//	    sections: [intro]
//
// normalizeComponent rewrites that form into the canonical one:
//
//	- id: readme
//	  args:
//	    sections: [intro]
//
// Non-mappings and records that already carry an id or a non-empty args
// mapping pass through unchanged. When more than one unrecognized key is
// present the declaration is ambiguous: the record keeps its original
// keys and gains an empty id, so the strict validator rejects it with a
// clear error instead of the resolver guessing.
func normalizeComponent(value any, recognized map[string]bool) any {
	record, ok := value.(map[string]any)
	if !ok {
		return value
	}
	if _, ok := record["id"]; ok {
		return value
	}
	if args, ok := record["args"].(map[string]any); ok && len(args) > 0 {
		return value
	}

	var extras []string
	for key := range record {
		if !recognized[key] {
			extras = append(extras, key)
		}
	}

	switch len(extras) {
	case 0:
		return value
	case 1:
		out := copyTree(record)
		key := extras[0]
		args := out[key]
		delete(out, key)
		out["id"] = key
		out["args"] = args
		return out
	default:
		out := copyTree(record)
		out["id"] = ""
		return out
	}
}

// normalizePlugin applies sugar normalization for the plugin shape
func normalizePlugin(value any) any {
	return normalizeComponent(value, pluginKeys)
}

// normalizeProcessor applies sugar normalization for the processor shape
func normalizeProcessor(value any) any {
	return normalizeComponent(value, processorKeys)
}
