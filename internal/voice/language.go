package voice

import (
	"errors"
	"fmt"

	"github.com/akwaba-labs/djobi/pkg/types"
)

// ErrUnsupportedLanguage is returned when a caller selects a language tag
// outside the registry.
var ErrUnsupportedLanguage = errors.New("voice: unsupported language")

// supportedLanguages is the fixed recognition offer. Baoulé and Bambara have
// no recognizer of their own and resolve to the French model, which handles
// the code-switched speech of the target users far better than rejecting the
// selection outright.
var supportedLanguages = []types.LanguageTag{
	{Code: "fr-FR", Name: "Français", NativeCode: "fr-FR"},
	{Code: "en-US", Name: "English", NativeCode: "en-US"},
	{Code: "bci-CI", Name: "Baoulé", NativeCode: "fr-FR"},
	{Code: "bm-ML", Name: "Bambara", NativeCode: "fr-FR"},
}

// SupportedLanguages returns the selectable language tags in display order.
func SupportedLanguages() []types.LanguageTag {
	out := make([]types.LanguageTag, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ResolveLanguage maps a caller-supplied tag to its registry entry.
func ResolveLanguage(code string) (types.LanguageTag, error) {
	for _, lang := range supportedLanguages {
		if lang.Code == code {
			return lang, nil
		}
	}
	return types.LanguageTag{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
}
