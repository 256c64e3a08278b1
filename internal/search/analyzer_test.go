package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/akwaba-labs/djobi/internal/search"
	"github.com/akwaba-labs/djobi/pkg/provider/llm"
	llmmock "github.com/akwaba-labs/djobi/pkg/provider/llm/mock"
)

func TestAnalyzeParsesStructuredResponse(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{
			Content: `{"keywords":["ménage","maison"],"jobTypes":["femme de ménage"],"locations":["Cocody"],"skills":["repassage"],"workMode":"Temps partiel","confidence":0.85,"originalLanguage":"fr","translatedQuery":"femme de ménage à Cocody"}`,
		},
	}
	a := search.NewAnalyzer(provider)

	got, err := a.Analyze(context.Background(), "femme de ménage à Cocody")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "ménage" {
		t.Fatalf("Analyze: unexpected keywords: %v", got.Keywords)
	}
	if got.WorkMode != "Temps partiel" {
		t.Fatalf("Analyze: unexpected workMode: %q", got.WorkMode)
	}
	if got.Confidence != 0.85 {
		t.Fatalf("Analyze: unexpected confidence: %v", got.Confidence)
	}

	calls := provider.Calls()
	if len(calls) != 1 {
		t.Fatalf("Analyze: expected 1 provider call, got %d", len(calls))
	}
	if !calls[0].Req.JSONMode {
		t.Fatal("Analyze: expected JSONMode request")
	}
}

func TestAnalyzeToleratesCodeFences(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{
			Content: "```json\n{\"keywords\":[\"gardien\"],\"jobTypes\":[],\"locations\":[],\"skills\":[],\"workMode\":\"\",\"confidence\":0.7,\"originalLanguage\":\"fr\",\"translatedQuery\":\"gardien\"}\n```",
		},
	}
	a := search.NewAnalyzer(provider)

	got, err := a.Analyze(context.Background(), "gardien")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(got.Keywords) != 1 || got.Keywords[0] != "gardien" {
		t.Fatalf("Analyze: unexpected keywords: %v", got.Keywords)
	}
}

func TestAnalyzeBackfillsLanguageAndQuery(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{
			Content: `{"keywords":["cuisinier"],"jobTypes":[],"locations":[],"skills":[],"workMode":"","confidence":0.5,"originalLanguage":"","translatedQuery":""}`,
		},
	}
	a := search.NewAnalyzer(provider)

	got, err := a.Analyze(context.Background(), "je cherche un cuisinier pour mon restaurant")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.OriginalLanguage == "" {
		t.Fatal("Analyze: expected detected language backfill")
	}
	if got.TranslatedQuery != "je cherche un cuisinier pour mon restaurant" {
		t.Fatalf("Analyze: expected query backfill, got %q", got.TranslatedQuery)
	}
}

func TestAnalyzeProviderError(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{CompleteErr: errors.New("model unavailable")}
	a := search.NewAnalyzer(provider)

	if _, err := a.Analyze(context.Background(), "gardien de nuit"); err == nil {
		t.Fatal("Analyze: expected error from failing provider")
	}
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	t.Parallel()

	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "désolé, je ne peux pas répondre en JSON"},
	}
	a := search.NewAnalyzer(provider)

	if _, err := a.Analyze(context.Background(), "gardien de nuit"); err == nil {
		t.Fatal("Analyze: expected error for non-JSON response")
	}
}
