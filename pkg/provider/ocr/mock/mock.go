// Package mock provides a test double for the ocr.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
)

// ExtractCall records a single invocation of Extract.
type ExtractCall struct {
	// Ctx is the context passed to Extract.
	Ctx context.Context
	// Image is a copy of the bytes passed to Extract.
	Image []byte
}

// Provider is a mock implementation of ocr.Provider.
// Zero values cause Extract to return nil, nil and Validate to return false, nil.
type Provider struct {
	mu sync.Mutex

	// ExtractResult is returned by Extract.
	ExtractResult *ocr.Result

	// ExtractErr, if non-nil, is returned as the error from Extract.
	ExtractErr error

	// ValidateResult is returned by Validate.
	ValidateResult bool

	// ValidateErr, if non-nil, is returned as the error from Validate.
	ValidateErr error

	// ExtractCalls records every invocation of Extract in order.
	ExtractCalls []ExtractCall

	// ValidateCallCount is the number of times Validate was called.
	ValidateCallCount int
}

// Extract records the call and returns ExtractResult, ExtractErr.
func (p *Provider) Extract(ctx context.Context, image []byte) (*ocr.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := make([]byte, len(image))
	copy(img, image)
	p.ExtractCalls = append(p.ExtractCalls, ExtractCall{Ctx: ctx, Image: img})
	return p.ExtractResult, p.ExtractErr
}

// Validate records the call and returns ValidateResult, ValidateErr.
func (p *Provider) Validate(ctx context.Context, _ []byte) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ValidateCallCount++
	return p.ValidateResult, p.ValidateErr
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ExtractCalls = nil
	p.ValidateCallCount = 0
}

// Ensure Provider implements ocr.Provider at compile time.
var _ ocr.Provider = (*Provider)(nil)
