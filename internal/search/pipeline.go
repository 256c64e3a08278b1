// Package search implements the listing search pipeline: a keyword pass over
// a flattened text projection of each listing, an optional AI-assisted pass
// for queries the keyword pass cannot satisfy, an optional semantic
// (embedding) pass, and a verification filter applied independently of the
// text filter.
//
// The keyword pass is the contract: it is deterministic, needs no provider,
// and always runs first. The assisted and semantic passes only ever widen a
// zero-result keyword pass; they never remove a keyword match.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/akwaba-labs/djobi/internal/job"
	"github.com/akwaba-labs/djobi/internal/observe"
)

// Verification selects listings by their certification flag, independently of
// any text filtering.
type Verification string

const (
	VerificationAll        Verification = "all"
	VerificationVerified   Verification = "verified"
	VerificationUnverified Verification = "unverified"
)

// IsValid reports whether v is one of the recognized selector values.
func (v Verification) IsValid() bool {
	switch v {
	case VerificationAll, VerificationVerified, VerificationUnverified:
		return true
	}
	return false
}

// Query is one search request.
type Query struct {
	// Text is the raw user input. Surrounding punctuation and whitespace are
	// stripped before matching; an empty (or punctuation-only) text matches
	// every listing.
	Text string

	// Verification selects by certification flag. The zero value means
	// VerificationAll.
	Verification Verification
}

// Mode identifies which pass produced a result set.
type Mode string

const (
	ModeSubstring Mode = "substring"
	ModeAssisted  Mode = "assisted"
	ModeSemantic  Mode = "semantic"
)

// Result is the outcome of one pipeline run.
type Result struct {
	// Offers are the matching listings, newest first (store order preserved).
	Offers []job.Offer

	// Mode is the pass that produced Offers.
	Mode Mode

	// Analysis is the structured query interpretation, set only when the
	// assisted pass ran and succeeded.
	Analysis *Analysis

	// Suggestions are "did you mean" alternatives, set only when no listing
	// matched.
	Suggestions []string
}

// minAssistLen is the default minimum cleaned-query length for the assisted
// pass. Very short queries produce noisy analyses.
const minAssistLen = 4

// Pipeline runs search queries against a listing store.
//
// Analyzer, Semantic and Suggester are all optional; a Pipeline with only a
// Store still serves the keyword pass. Safe for concurrent use.
type Pipeline struct {
	store     job.Store
	analyzer  *Analyzer
	semantic  *SemanticIndex
	suggester *Suggester
	metrics   *observe.Metrics
	assistLen int
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithAnalyzer enables the AI-assisted pass.
func WithAnalyzer(a *Analyzer) Option {
	return func(p *Pipeline) { p.analyzer = a }
}

// WithSemanticIndex enables the embedding-based pass.
func WithSemanticIndex(idx *SemanticIndex) Option {
	return func(p *Pipeline) { p.semantic = idx }
}

// WithSuggester enables "did you mean" suggestions on zero results.
func WithSuggester(s *Suggester) Option {
	return func(p *Pipeline) { p.suggester = s }
}

// WithMetrics records query counts and durations on m instead of the default
// instrument set.
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithMinAssistQueryLen overrides the minimum cleaned-query length for the
// assisted pass.
func WithMinAssistQueryLen(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.assistLen = n
		}
	}
}

// NewPipeline creates a search pipeline over store.
func NewPipeline(store job.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     store,
		assistLen: minAssistLen,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p
}

// Search runs the full pipeline for q.
//
// Pass order: keyword substring, then (only on zero results and a long enough
// query) the AI-assisted pass, then the semantic pass. The verification
// selector is applied last, to whichever result set the text passes produced.
func (p *Pipeline) Search(ctx context.Context, q Query) (Result, error) {
	start := time.Now()

	offers, err := p.store.List(ctx)
	if err != nil {
		return Result{}, err
	}

	cleaned := CleanQuery(q.Text)
	res := Result{Mode: ModeSubstring}

	res.Offers = filterSubstring(offers, cleaned)

	if len(res.Offers) == 0 && len([]rune(cleaned)) >= p.assistLen {
		if p.analyzer != nil {
			res = p.assistedPass(ctx, offers, cleaned, res)
		}
		if len(res.Offers) == 0 && p.semantic != nil {
			res = p.semanticPass(ctx, cleaned, res)
		}
	}

	res.Offers = filterVerification(res.Offers, q.Verification)

	if len(res.Offers) == 0 && cleaned != "" && p.suggester != nil {
		res.Suggestions = p.suggester.Suggest(cleaned, 3)
	}

	p.metrics.RecordSearchQuery(ctx, string(res.Mode))
	p.metrics.SearchDuration.Record(ctx, time.Since(start).Seconds())
	return res, nil
}

func (p *Pipeline) assistedPass(ctx context.Context, offers []job.Offer, cleaned string, res Result) Result {
	analysis, err := p.analyzer.Analyze(ctx, cleaned)
	if err != nil {
		// Degraded assist: plain substring over the three core fields.
		slog.Warn("query analysis failed, using degraded match", "error", err)
		res.Offers = filterCoreFields(offers, cleaned)
		return res
	}
	res.Analysis = analysis
	res.Mode = ModeAssisted
	res.Offers = filterAnalysis(offers, analysis)
	return res
}

func (p *Pipeline) semanticPass(ctx context.Context, cleaned string, res Result) Result {
	ids, err := p.semantic.Search(ctx, cleaned, 5)
	if err != nil {
		slog.Warn("semantic search failed", "error", err)
		return res
	}
	var matched []job.Offer
	for _, id := range ids {
		o, err := p.store.Get(ctx, id)
		if err != nil {
			continue // listing pruned since it was indexed
		}
		matched = append(matched, o)
	}
	if len(matched) > 0 {
		res.Mode = ModeSemantic
		res.Offers = matched
	}
	return res
}

// CleanQuery strips surrounding punctuation and whitespace from a raw query.
// Interior punctuation is preserved ("deux-plateaux" stays intact).
func CleanQuery(q string) string {
	return strings.TrimFunc(q, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining diacritics, so "Ménage" matches
// "menage". Falls back to plain lowercasing when the transform fails on
// malformed input.
func Fold(s string) string {
	lower := strings.ToLower(s)
	folded, _, err := transform.String(foldTransformer, lower)
	if err != nil {
		return lower
	}
	return folded
}

// matches reports whether the listing text contains the query, first
// case-folded only, then accent-folded. The accent-folded comparison is a
// widening refinement: anything the plain comparison matches still matches.
func matches(text, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
		return true
	}
	return strings.Contains(Fold(text), Fold(query))
}

func filterSubstring(offers []job.Offer, query string) []job.Offer {
	matched := make([]job.Offer, 0, len(offers))
	for _, o := range offers {
		if matches(o.SearchText(), query) {
			matched = append(matched, o)
		}
	}
	return matched
}

// filterCoreFields is the degraded assist path: substring over title,
// location and required profile only.
func filterCoreFields(offers []job.Offer, query string) []job.Offer {
	var matched []job.Offer
	for _, o := range offers {
		text := strings.Join([]string{o.Title, o.Location, o.RequiredProfile}, " ")
		if matches(text, query) {
			matched = append(matched, o)
		}
	}
	return matched
}

// filterAnalysis matches offers against a structured query analysis: any
// keyword, job type or skill against the full projection, any location
// against the listing location, and the work mode against the listing's.
func filterAnalysis(offers []job.Offer, a *Analysis) []job.Offer {
	var matched []job.Offer
	for _, o := range offers {
		if analysisMatches(o, a) {
			matched = append(matched, o)
		}
	}
	return matched
}

func analysisMatches(o job.Offer, a *Analysis) bool {
	text := o.SearchText()
	terms := make([]string, 0, len(a.Keywords)+len(a.JobTypes)+len(a.Skills))
	terms = append(terms, a.Keywords...)
	terms = append(terms, a.JobTypes...)
	terms = append(terms, a.Skills...)
	for _, term := range terms {
		if term != "" && matches(text, term) {
			return true
		}
	}
	for _, loc := range a.Locations {
		if loc != "" && matches(o.Location, loc) {
			return true
		}
	}
	if a.WorkMode != "" && matches(o.WorkMode, a.WorkMode) {
		return true
	}
	return false
}

func filterVerification(offers []job.Offer, v Verification) []job.Offer {
	if v == "" || v == VerificationAll {
		return offers
	}
	wantCertified := v == VerificationVerified
	matched := make([]job.Offer, 0, len(offers))
	for _, o := range offers {
		if o.Certified == wantCertified {
			matched = append(matched, o)
		}
	}
	return matched
}
