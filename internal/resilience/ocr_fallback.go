package resilience

import (
	"context"
	"errors"

	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
)

// OCRFallback implements [ocr.Provider] with automatic failover across multiple
// extraction backends. A "not detected" outcome is a legitimate answer about
// the image, not a backend fault, so it does not trigger failover and does not
// count against the circuit breaker.
type OCRFallback struct {
	group *FallbackGroup[ocr.Provider]
}

// Compile-time interface assertion.
var _ ocr.Provider = (*OCRFallback)(nil)

// NewOCRFallback creates an [OCRFallback] with primary as the preferred backend.
func NewOCRFallback(primary ocr.Provider, primaryName string, cfg FallbackConfig) *OCRFallback {
	return &OCRFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional OCR provider as a fallback.
func (f *OCRFallback) AddFallback(name string, provider ocr.Provider) {
	f.group.AddFallback(name, provider)
}

// Extract runs the extraction against the first healthy provider. ErrNotDetected
// is returned to the caller directly without trying further backends.
func (f *OCRFallback) Extract(ctx context.Context, image []byte) (*ocr.Result, error) {
	res, err := ExecuteWithResult(f.group, func(p ocr.Provider) (*ocr.Result, error) {
		r, err := p.Extract(ctx, image)
		if errors.Is(err, ocr.ErrNotDetected) {
			// Report success to the breaker but carry the outcome through.
			return &ocr.Result{Detected: false}, nil
		}
		return r, err
	})
	if err != nil {
		return nil, err
	}
	if !res.Detected {
		return nil, ocr.ErrNotDetected
	}
	return res, nil
}

// Validate runs the detection-only pass against the first healthy provider.
func (f *OCRFallback) Validate(ctx context.Context, image []byte) (bool, error) {
	return ExecuteWithResult(f.group, func(p ocr.Provider) (bool, error) {
		return p.Validate(ctx, image)
	})
}
