// Package types defines the shared types used across all Djobi packages.
//
// These types form the lingua franca between providers, the voice capture
// layer, and the search/chat services. Each package defines its own domain
// types; cross-cutting data structures live here to avoid circular imports.
package types

import "time"

// Transcript represents a speech-to-text result from an STT provider.
// Both partial (interim) and final transcripts use this type.
type Transcript struct {
	// Text is the transcribed speech content. For continuous sessions this is
	// the cumulative text of the current utterance, not a delta.
	Text string

	// IsFinal indicates whether this is a final (authoritative) or partial
	// (interim) transcript.
	IsFinal bool

	// Confidence is the overall confidence score (0.0–1.0). May be zero if the
	// provider does not report confidence.
	Confidence float64

	// Timestamp marks when the utterance started, relative to session start.
	Timestamp time.Duration
}

// Message represents a single message in an LLM conversation.
type Message struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the text content of the message.
	Content string
}

// LanguageTag identifies one of the recognition languages offered to callers.
// Local languages without a native recognizer carry a non-empty fallback.
type LanguageTag struct {
	// Code is the public BCP-47-style tag shown to the caller
	// (e.g. "fr-FR", "bci-CI").
	Code string

	// Name is the human-readable language name (e.g. "Baoulé").
	Name string

	// NativeCode is the tag actually passed to the recognizer. Equal to Code
	// for natively supported languages; the fallback tag otherwise.
	NativeCode string
}
