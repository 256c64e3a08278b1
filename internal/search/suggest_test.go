package search_test

import (
	"testing"

	"github.com/akwaba-labs/djobi/internal/job"
	"github.com/akwaba-labs/djobi/internal/search"
)

func seedTitles() []string {
	offers := job.SeedOffers()
	titles := make([]string, 0, len(offers))
	for _, o := range offers {
		titles = append(titles, o.Title)
	}
	return titles
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	s := search.NewSuggester(seedTitles())

	tests := []struct {
		name  string
		query string
		want  string // expected first suggestion
	}{
		{"transposition", "servamte", "Servante"},
		{"deletion", "gardin", "Gardien"},
		{"accented word inside title", "menage", "Femme de ménage"},
		{"chauffeur typo", "chaufeur", "Chauffeur"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := s.Suggest(tc.query, 3)
			if len(got) == 0 {
				t.Fatalf("Suggest(%q): expected suggestions, got none", tc.query)
			}
			if got[0] != tc.want {
				t.Fatalf("Suggest(%q): expected %q first, got %v", tc.query, tc.want, got)
			}
		})
	}
}

func TestSuggestNoNearMatch(t *testing.T) {
	t.Parallel()

	s := search.NewSuggester(seedTitles())
	if got := s.Suggest("plomberie industrielle", 3); len(got) != 0 {
		t.Fatalf("Suggest: expected no suggestions for a distant query, got %v", got)
	}
}

func TestSuggestRespectsMax(t *testing.T) {
	t.Parallel()

	s := search.NewSuggester([]string{"Gardien", "Gardiens", "Jardinier"})
	if got := s.Suggest("gardien", 2); len(got) > 2 {
		t.Fatalf("Suggest: expected at most 2 suggestions, got %v", got)
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	t.Parallel()

	s := search.NewSuggester(seedTitles())
	if got := s.Suggest("", 3); got != nil {
		t.Fatalf("Suggest: expected nil for empty query, got %v", got)
	}
}
