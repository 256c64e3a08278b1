package config

import "reflect"

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	ProviderChanges []ProviderDiff // providers whose entry changed

	SearchChanged bool // debounce, assist threshold, or semantic settings
	VoiceChanged  bool // silence timeout, language, or sample rate
	ChatChanged   bool // temperature, token cap, or history limit
}

// ProviderDiff identifies a provider slot whose configuration changed.
type ProviderDiff struct {
	Kind        string // "llm", "stt", "ocr", or "embeddings"
	NameChanged bool   // a different implementation was selected
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	kinds := []struct {
		kind     string
		old, new ProviderEntry
	}{
		{"llm", old.Providers.LLM, new.Providers.LLM},
		{"stt", old.Providers.STT, new.Providers.STT},
		{"ocr", old.Providers.OCR, new.Providers.OCR},
		{"embeddings", old.Providers.Embeddings, new.Providers.Embeddings},
	}
	for _, k := range kinds {
		if entryEqual(k.old, k.new) {
			continue
		}
		d.ProviderChanges = append(d.ProviderChanges, ProviderDiff{
			Kind:        k.kind,
			NameChanged: k.old.Name != k.new.Name,
		})
	}

	if old.Search != new.Search {
		d.SearchChanged = true
	}
	if old.Voice != new.Voice {
		d.VoiceChanged = true
	}
	if old.Chat != new.Chat {
		d.ChatChanged = true
	}

	return d
}

// entryEqual compares provider entries field by field. Options values can be
// nested maps, so that comparison goes through reflect.DeepEqual.
func entryEqual(a, b ProviderEntry) bool {
	if a.Name != b.Name || a.APIKey != b.APIKey || a.BaseURL != b.BaseURL || a.Model != b.Model {
		return false
	}
	return reflect.DeepEqual(a.Options, b.Options)
}
