// Package simulated provides a canned-response OCR provider for demos and
// tests. It never inspects the image bytes: it waits a configurable processing
// delay, then either returns a fixed set of CNI fields or reports that no card
// was detected, according to a configurable success rate.
//
// This provider must never be wired as the production extraction path; it is
// selected explicitly via the providers.ocr.name = "simulated" configuration.
package simulated

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
)

// Canned field values returned on every successful extraction.
const (
	CardNumber = "1234567890123456"
	LastName   = "AKPA"
	FirstName  = "SEBIM JEAN JACQUES"
)

const (
	defaultExtractDelay  = 2 * time.Second
	defaultValidateDelay = 1 * time.Second

	defaultExtractRate  = 0.8
	defaultValidateRate = 0.7
)

// Option is a functional option for the simulated Provider.
type Option func(*Provider)

// WithDelays overrides the simulated processing delays for Extract and
// Validate. Zero values disable the wait entirely; tests use this.
func WithDelays(extract, validate time.Duration) Option {
	return func(p *Provider) {
		p.extractDelay = extract
		p.validateDelay = validate
	}
}

// WithSuccessRates overrides the detection probabilities for Extract and
// Validate, in [0.0, 1.0]. A rate of 1.0 makes the provider deterministic.
func WithSuccessRates(extract, validate float64) Option {
	return func(p *Provider) {
		p.extractRate = extract
		p.validateRate = validate
	}
}

// WithRand replaces the random source. Tests inject a seeded source for
// reproducible outcomes.
func WithRand(r *rand.Rand) Option {
	return func(p *Provider) {
		p.rand = r
	}
}

// Provider implements ocr.Provider with canned responses.
type Provider struct {
	extractDelay  time.Duration
	validateDelay time.Duration
	extractRate   float64
	validateRate  float64
	rand          *rand.Rand
}

// New creates a simulated Provider with the default delays (2s extract,
// 1s validate) and success rates (80% extract, 70% validate).
func New(opts ...Option) *Provider {
	p := &Provider{
		extractDelay:  defaultExtractDelay,
		validateDelay: defaultValidateDelay,
		extractRate:   defaultExtractRate,
		validateRate:  defaultValidateRate,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Extract waits the configured delay, then returns the canned fields or
// ocr.ErrNotDetected according to the success rate. The image bytes are
// never inspected.
func (p *Provider) Extract(ctx context.Context, _ []byte) (*ocr.Result, error) {
	if err := p.wait(ctx, p.extractDelay); err != nil {
		return nil, err
	}

	if p.roll() >= p.extractRate {
		return nil, ocr.ErrNotDetected
	}

	return &ocr.Result{
		Detected: true,
		Fields: &ocr.Fields{
			Number:    CardNumber,
			LastName:  LastName,
			FirstName: FirstName,
		},
	}, nil
}

// Validate waits the configured delay, then reports detection according to
// the validate success rate.
func (p *Provider) Validate(ctx context.Context, _ []byte) (bool, error) {
	if err := p.wait(ctx, p.validateDelay); err != nil {
		return false, err
	}
	return p.roll() < p.validateRate, nil
}

func (p *Provider) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Provider) roll() float64 {
	if p.rand != nil {
		return p.rand.Float64()
	}
	return rand.Float64()
}

// Ensure Provider implements ocr.Provider at compile time.
var _ ocr.Provider = (*Provider)(nil)
