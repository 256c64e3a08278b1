package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"

	"github.com/akwaba-labs/djobi/internal/observe"
	"github.com/akwaba-labs/djobi/pkg/provider/llm"
	"github.com/akwaba-labs/djobi/pkg/types"
)

// Analysis is the structured interpretation of a free-form search query.
// Field names follow the wire format the web client consumes.
type Analysis struct {
	// Keywords are the salient search terms extracted from the query.
	Keywords []string `json:"keywords"`

	// JobTypes are recognized trade or role names ("cuisinier", "gardien").
	JobTypes []string `json:"jobTypes"`

	// Locations are place names mentioned in the query.
	Locations []string `json:"locations"`

	// Skills are competencies the query asks for.
	Skills []string `json:"skills"`

	// WorkMode is the requested schedule ("Temps plein", "Temps partiel"), or
	// empty when the query does not constrain it.
	WorkMode string `json:"workMode"`

	// Confidence is the model's self-reported confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// OriginalLanguage is the ISO 639-1 code of the query language.
	OriginalLanguage string `json:"originalLanguage"`

	// TranslatedQuery is the query rendered in French, the language of the
	// listing corpus. Equal to the input when the query is already French.
	TranslatedQuery string `json:"translatedQuery"`
}

const analyzerSystemPrompt = `Tu analyses des requêtes de recherche d'emploi pour le secteur informel en Côte d'Ivoire.
Réponds uniquement avec un objet JSON de la forme:
{"keywords":[],"jobTypes":[],"locations":[],"skills":[],"workMode":"","confidence":0.0,"originalLanguage":"","translatedQuery":""}
- keywords: termes de recherche pertinents, en français
- jobTypes: métiers reconnus (ex: "servante", "chauffeur", "cuisinier")
- locations: lieux mentionnés (communes d'Abidjan, villes)
- skills: compétences demandées
- workMode: "Temps plein", "Temps partiel" ou "" si non précisé
- confidence: ta confiance entre 0 et 1
- originalLanguage: code ISO 639-1 de la langue de la requête
- translatedQuery: la requête traduite en français`

// Analyzer turns free-form queries into an [Analysis] via an LLM provider.
// Safe for concurrent use.
type Analyzer struct {
	provider llm.Provider
	metrics  *observe.Metrics
}

// NewAnalyzer creates an Analyzer backed by provider.
func NewAnalyzer(provider llm.Provider) *Analyzer {
	return &Analyzer{
		provider: provider,
		metrics:  observe.DefaultMetrics(),
	}
}

// Analyze asks the model for a structured reading of query. The query
// language is detected locally and passed to the model as a hint; the model's
// own answer wins but a missing originalLanguage is backfilled from the local
// detection.
func (a *Analyzer) Analyze(ctx context.Context, query string) (*Analysis, error) {
	detected := whatlanggo.DetectLang(query).Iso6391()

	start := time.Now()
	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: analyzerSystemPrompt,
		Messages: []types.Message{{
			Role:    "user",
			Content: fmt.Sprintf("Langue détectée: %s\nRequête: %s", detected, query),
		}},
		JSONMode: true,
	})
	a.metrics.LLMDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("search: analyze query: %w", err)
	}

	analysis, err := parseAnalysis(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("search: analyze query: %w", err)
	}
	if analysis.OriginalLanguage == "" {
		analysis.OriginalLanguage = detected
	}
	if analysis.TranslatedQuery == "" {
		analysis.TranslatedQuery = query
	}
	return analysis, nil
}

// parseAnalysis unmarshals the model output, tolerating markdown code fences
// that some backends wrap around JSON even in JSON mode.
func parseAnalysis(content string) (*Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var a Analysis
	if err := json.Unmarshal([]byte(content), &a); err != nil {
		return nil, fmt.Errorf("parse analysis JSON: %w", err)
	}
	return &a, nil
}
