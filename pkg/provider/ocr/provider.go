// Package ocr defines the Provider interface for identity document extraction
// backends.
//
// An OCR provider takes a scanned image of a Côte d'Ivoire national identity
// card (CNI) and returns the structured fields printed on it. The production
// path is an HTTP extraction service; a simulated provider with canned fields
// exists for demos and tests and must be selected explicitly in configuration.
//
// Implementations must be safe for concurrent use.
package ocr

import (
	"context"
	"errors"
)

// ErrNotDetected is returned when the provider cannot locate a CNI in the
// supplied image. Callers should surface this to the user as a retryable
// condition rather than a system fault.
var ErrNotDetected = errors.New("ocr: CNI non détectée dans l'image")

// Fields holds the structured values extracted from a CNI.
// All values are verbatim as printed on the card.
type Fields struct {
	// Number is the card number (e.g., "1234567890123456").
	Number string `json:"numeroCNI"`

	// LastName is the bearer's family name (e.g., "AKPA").
	LastName string `json:"nom"`

	// FirstName is the bearer's given names (e.g., "SEBIM JEAN JACQUES").
	FirstName string `json:"prenom"`
}

// Result is the outcome of an extraction attempt.
//
// Invariant: Detected is true if and only if Fields is non-nil. A Result with
// Detected true always carries all three fields populated.
type Result struct {
	// Detected reports whether a CNI was found in the image.
	Detected bool `json:"cniDetectee"`

	// Fields holds the extracted values. Nil when Detected is false.
	Fields *Fields `json:"champs,omitempty"`
}

// Provider is the abstraction over any CNI extraction backend.
type Provider interface {
	// Extract analyses the image bytes and returns the structured CNI fields.
	// Returns ErrNotDetected (possibly wrapped) when no card is found, or
	// another error for transport and decoding failures.
	Extract(ctx context.Context, image []byte) (*Result, error)

	// Validate performs a cheaper detection-only pass: it reports whether the
	// image plausibly contains a CNI without extracting fields. Used to give
	// fast feedback before a full extraction.
	Validate(ctx context.Context, image []byte) (bool, error)
}
