package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/akwaba-labs/djobi/pkg/provider/ocr"
	ocrmock "github.com/akwaba-labs/djobi/pkg/provider/ocr/mock"
)

func detectedResult() *ocr.Result {
	return &ocr.Result{
		Detected: true,
		Fields:   &ocr.Fields{Number: "1234567890123456", LastName: "AKPA", FirstName: "SEBIM JEAN JACQUES"},
	}
}

func TestOCRFallback_Extract_PrimarySuccess(t *testing.T) {
	primary := &ocrmock.Provider{ExtractResult: detectedResult()}
	secondary := &ocrmock.Provider{}

	fb := NewOCRFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	res, err := fb.Extract(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fields.LastName != "AKPA" {
		t.Fatalf("LastName = %q, want AKPA", res.Fields.LastName)
	}
	if len(secondary.ExtractCalls) != 0 {
		t.Fatalf("secondary called %d times, want 0", len(secondary.ExtractCalls))
	}
}

func TestOCRFallback_Extract_Failover(t *testing.T) {
	primary := &ocrmock.Provider{ExtractErr: errors.New("service down")}
	secondary := &ocrmock.Provider{ExtractResult: detectedResult()}

	fb := NewOCRFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	res, err := fb.Extract(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Detected {
		t.Fatal("expected Detected=true from secondary")
	}
}

func TestOCRFallback_Extract_NotDetectedDoesNotFailover(t *testing.T) {
	primary := &ocrmock.Provider{ExtractErr: ocr.ErrNotDetected}
	secondary := &ocrmock.Provider{ExtractResult: detectedResult()}

	fb := NewOCRFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	_, err := fb.Extract(context.Background(), []byte("img"))
	if !errors.Is(err, ocr.ErrNotDetected) {
		t.Fatalf("err = %v, want ErrNotDetected", err)
	}
	if len(secondary.ExtractCalls) != 0 {
		t.Fatalf("secondary called %d times, want 0 (no failover on not-detected)", len(secondary.ExtractCalls))
	}
}

func TestOCRFallback_Extract_AllFail(t *testing.T) {
	primary := &ocrmock.Provider{ExtractErr: errors.New("primary down")}
	secondary := &ocrmock.Provider{ExtractErr: errors.New("secondary down")}

	fb := NewOCRFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	_, err := fb.Extract(context.Background(), []byte("img"))
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}

func TestOCRFallback_Validate_Failover(t *testing.T) {
	primary := &ocrmock.Provider{ValidateErr: errors.New("primary down")}
	secondary := &ocrmock.Provider{ValidateResult: true}

	fb := NewOCRFallback(primary, "primary", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fb.AddFallback("secondary", secondary)

	ok, err := fb.Validate(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected true from secondary")
	}
}
