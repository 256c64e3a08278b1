package search

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// maxSuggestDistance is the largest Damerau-Levenshtein distance (computed on
// folded strings) still offered as a suggestion.
const maxSuggestDistance = 3

// Suggester offers "did you mean" alternatives for queries that matched
// nothing, ranked by Damerau-Levenshtein distance against a fixed vocabulary
// of known listing titles. Read-only after construction, safe for concurrent
// use.
type Suggester struct {
	titles []string
}

// NewSuggester builds a Suggester over titles. Duplicate titles (compared
// accent- and case-folded) are collapsed.
func NewSuggester(titles []string) *Suggester {
	seen := make(map[string]struct{}, len(titles))
	uniq := make([]string, 0, len(titles))
	for _, t := range titles {
		key := Fold(t)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, t)
	}
	return &Suggester{titles: uniq}
}

// Suggest returns up to max titles close to query, nearest first. Distance is
// measured per word as well as against the whole title, so "servant" suggests
// "Servante" and "menage" suggests "Femme de ménage".
func (s *Suggester) Suggest(query string, max int) []string {
	folded := Fold(query)
	if folded == "" || max <= 0 {
		return nil
	}

	type scored struct {
		title string
		dist  int
	}
	var candidates []scored
	for _, title := range s.titles {
		if d := titleDistance(folded, title); d <= maxSuggestDistance {
			candidates = append(candidates, scored{title: title, dist: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.title
	}
	return out
}

// titleDistance is the best Damerau-Levenshtein distance between the folded
// query and the folded title or any single word of it.
func titleDistance(foldedQuery, title string) int {
	foldedTitle := Fold(title)
	best := matchr.DamerauLevenshtein(foldedQuery, foldedTitle)
	for _, word := range strings.Fields(foldedTitle) {
		if d := matchr.DamerauLevenshtein(foldedQuery, word); d < best {
			best = d
		}
	}
	return best
}
