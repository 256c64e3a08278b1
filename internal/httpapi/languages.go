package httpapi

import (
	"net/http"

	"github.com/akwaba-labs/djobi/internal/voice"
)

// languageEntry is one selectable recognition language.
type languageEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// handleLanguages lists the language tags the voice endpoint accepts.
func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	langs := voice.SupportedLanguages()
	out := make([]languageEntry, len(langs))
	for i, l := range langs {
		out[i] = languageEntry{Code: l.Code, Name: l.Name}
	}
	writeJSON(w, http.StatusOK, map[string][]languageEntry{"languages": out})
}
