package config

import "fmt"

// resolver carries the state of a single resolution pass. Every call to
// Resolve builds a fresh one; nothing is shared across resolutions.
type resolver struct {
	raw     map[string]any
	presets map[string]PresetBundle
}

// candidate is a fully merged plugin record awaiting strict validation
type candidate struct {
	path       string           // position in the document, e.g. plugins[2]
	record     map[string]any   // merged plugin fields, preset key dropped
	nop        bool             // declared without id, args and retries
	processors []map[string]any // merged processor records, preset keys dropped
}

// resolveEntries runs the cascade for every plugin declaration in the
// raw tree, producing merged candidates in document order.
func (r *resolver) resolveEntries() ([]candidate, error) {
	rawPlugins, ok := r.raw["plugins"]
	if !ok || rawPlugins == nil {
		return nil, nil
	}
	entries, ok := rawPlugins.([]any)
	if !ok {
		return nil, NewValidationError("plugins", "a sequence of plugin declarations", rawPlugins, ErrInvalidValue)
	}

	candidates := make([]candidate, 0, len(entries))
	for i, entry := range entries {
		c, err := r.resolvePlugin(entry, i)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// resolvePlugin normalizes one plugin declaration and merges its layer
// stack, lowest precedence first: the default bundle, the referenced
// preset bundle (when it resolves), then the explicit fields.
func (r *resolver) resolvePlugin(entry any, index int) (candidate, error) {
	path := fmt.Sprintf("plugins[%d]", index)

	record, ok := normalizePlugin(entry).(map[string]any)
	if !ok {
		return candidate{}, NewValidationError(path, "a plugin mapping", entry, ErrInvalidValue)
	}

	presetName := presetNameOf(record)

	layers := []map[string]any{r.presets[DefaultPresetName].Plugins}
	if bundle, ok := r.lookupPreset(presetName); ok {
		layers = append(layers, bundle.Plugins)
	}
	layers = append(layers, record)

	merged := mergeLayers(layers...)
	delete(merged, "preset")

	// An entry that declares none of id, args and retries carries no
	// identity of its own: it resolves to a nop. Identity contributed by
	// a preset alone does not make the entry runnable.
	_, hasID := record["id"]
	_, hasArgs := record["args"]
	_, hasRetries := record["retries"]
	nop := !hasID && !hasArgs && !hasRetries

	processors, err := r.resolveProcessors(merged, presetName, path)
	if err != nil {
		return candidate{}, err
	}
	delete(merged, "processors")

	return candidate{
		path:       path,
		record:     merged,
		nop:        nop,
		processors: processors,
	}, nil
}

// resolveProcessors merges the processor stack for each entry in the
// plugin's (already merged) processor list. The stack has four layers,
// lowest precedence first: the default bundle's processor defaults, the
// plugin preset's processor defaults, the processor's own preset, then
// the explicit fields. Plugin presets only ever contribute their
// processor sub-bundle here, never plugin fields.
func (r *resolver) resolveProcessors(merged map[string]any, pluginPreset string, pluginPath string) ([]map[string]any, error) {
	rawList, ok := merged["processors"]
	if !ok || rawList == nil {
		return nil, nil
	}
	list, ok := rawList.([]any)
	if !ok {
		return nil, NewValidationError(pluginPath+".processors", "a sequence of processor declarations", rawList, ErrInvalidValue)
	}

	processors := make([]map[string]any, 0, len(list))
	for j, entry := range list {
		path := fmt.Sprintf("%s.processors[%d]", pluginPath, j)

		record, ok := normalizeProcessor(entry).(map[string]any)
		if !ok {
			return nil, NewValidationError(path, "a processor mapping", entry, ErrInvalidValue)
		}

		layers := []map[string]any{r.presets[DefaultPresetName].Processors}
		if bundle, ok := r.lookupPreset(pluginPreset); ok {
			layers = append(layers, bundle.Processors)
		}
		if bundle, ok := r.lookupPreset(presetNameOf(record)); ok {
			layers = append(layers, bundle.Processors)
		}
		layers = append(layers, record)

		mergedProc := mergeLayers(layers...)
		delete(mergedProc, "preset")
		processors = append(processors, mergedProc)
	}
	return processors, nil
}

// lookupPreset resolves a preset reference. A name that matches no
// bundle contributes nothing; that is never an error.
func (r *resolver) lookupPreset(name string) (PresetBundle, bool) {
	if name == "" {
		return PresetBundle{}, false
	}
	bundle, ok := r.presets[name]
	return bundle, ok
}

// presetNameOf reads a preset reference from a record. Only string
// references count; anything else is treated like an unresolved name.
func presetNameOf(record map[string]any) string {
	name, _ := record["preset"].(string)
	return name
}
