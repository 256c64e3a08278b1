// Package voice manages speech capture sessions over a streaming STT
// provider.
//
// A Session is a per-use object: the caller constructs one, starts it, reads
// tagged events from a single ordered channel, and discards it when done.
// There is no shared recognizer state between sessions.
//
// Event ordering is guaranteed by construction: one goroutine owns the
// provider's transcript channels and the trailing-silence timer, so Interim,
// Final, SilenceTimeout and Ended events arrive in the order they happened.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/akwaba-labs/djobi/internal/observe"
	"github.com/akwaba-labs/djobi/pkg/provider/stt"
	"github.com/akwaba-labs/djobi/pkg/types"
)

var (
	// ErrSessionActive is returned by Start when the session is already
	// listening.
	ErrSessionActive = errors.New("voice: session already active")

	// ErrNotListening is returned by SendAudio outside an active session.
	ErrNotListening = errors.New("voice: session not listening")

	// ErrNoProvider is returned by Start when no STT provider is configured.
	ErrNoProvider = errors.New("voice: no speech provider configured")
)

// EventKind tags a session event.
type EventKind string

const (
	// EventStarted signals that the provider stream is open and audio may be
	// sent.
	EventStarted EventKind = "started"

	// EventInterim carries a low-latency partial transcript.
	EventInterim EventKind = "interim"

	// EventFinal carries an authoritative transcript.
	EventFinal EventKind = "final"

	// EventSilenceTimeout signals that the trailing-silence timer fired after
	// a final transcript. The session ends right after.
	EventSilenceTimeout EventKind = "silence_timeout"

	// EventError carries a session-fatal error.
	EventError EventKind = "error"

	// EventEnded is always the last event of a session.
	EventEnded EventKind = "ended"
)

// Event is one tagged session event. Transcript is set for Interim and Final,
// Err for Error; both are zero otherwise.
type Event struct {
	Kind       EventKind
	Transcript types.Transcript
	Err        error
}

// defaultSilenceTimeout ends a session this long after the last result once a
// final transcript has arrived.
const defaultSilenceTimeout = 5 * time.Second

// Session is one speech capture session. Construct with NewSession, call
// Start once, consume Events until EventEnded.
//
// All exported methods are safe for concurrent use.
type Session struct {
	provider       stt.Provider
	silenceTimeout time.Duration
	sampleRate     int
	metrics        *observe.Metrics

	mu        sync.Mutex
	language  types.LanguageTag
	listening bool
	handle    stt.SessionHandle
	cancel    context.CancelFunc

	events chan Event
	closed bool
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithSilenceTimeout overrides the trailing-silence duration.
func WithSilenceTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.silenceTimeout = d
		}
	}
}

// WithSampleRate sets the PCM sample rate announced to the provider.
func WithSampleRate(hz int) SessionOption {
	return func(s *Session) {
		if hz > 0 {
			s.sampleRate = hz
		}
	}
}

// WithSessionMetrics records session gauges on m instead of the default
// instrument set.
func WithSessionMetrics(m *observe.Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession creates an idle session over provider. The default language is
// French; the default silence timeout is 5 seconds.
func NewSession(provider stt.Provider, opts ...SessionOption) *Session {
	s := &Session{
		provider:       provider,
		silenceTimeout: defaultSilenceTimeout,
		sampleRate:     16000,
		events:         make(chan Event, 32),
	}
	s.language, _ = ResolveLanguage("fr-FR")
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Events returns the session's ordered event channel. It is closed after
// EventEnded (or after Close).
func (s *Session) Events() <-chan Event {
	return s.events
}

// SetLanguage selects the recognition language for the next Start. Unknown
// tags are rejected without touching the current selection.
func (s *Session) SetLanguage(code string) error {
	lang, err := ResolveLanguage(code)
	if err != nil {
		slog.Warn("rejected unsupported voice language", "code", code)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	return nil
}

// Language returns the currently selected language tag.
func (s *Session) Language() types.LanguageTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// IsListening reports whether the session currently has an open provider
// stream.
func (s *Session) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// Start opens the provider stream and begins emitting events. Calling Start
// on an active session returns ErrSessionActive. When the provider is missing
// or refuses the stream, an EventError is emitted, the error is returned, and
// the session stays idle.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.listening {
		s.mu.Unlock()
		return ErrSessionActive
	}
	lang := s.language
	s.mu.Unlock()

	if s.provider == nil {
		s.emit(Event{Kind: EventError, Err: ErrNoProvider})
		return ErrNoProvider
	}

	handle, err := s.provider.StartStream(ctx, stt.StreamConfig{
		SampleRate: s.sampleRate,
		Channels:   1,
		Language:   lang.NativeCode,
	})
	if err != nil {
		err = fmt.Errorf("voice: start stream: %w", err)
		s.emit(Event{Kind: EventError, Err: err})
		return err
	}

	pumpCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.listening = true
	s.handle = handle
	s.cancel = cancel
	s.mu.Unlock()

	s.metrics.ActiveVoiceSessions.Add(ctx, 1)
	s.emit(Event{Kind: EventStarted})
	go s.pump(pumpCtx, handle)
	return nil
}

// SendAudio forwards a PCM chunk to the open stream.
func (s *Session) SendAudio(chunk []byte) error {
	s.mu.Lock()
	handle := s.handle
	listening := s.listening
	s.mu.Unlock()
	if !listening || handle == nil {
		return ErrNotListening
	}
	return handle.SendAudio(chunk)
}

// Stop ends the session gracefully: the provider stream is closed, remaining
// transcripts drain, then EventEnded is emitted. Safe to call repeatedly and
// on an idle session.
func (s *Session) Stop() {
	s.mu.Lock()
	handle := s.handle
	s.handle = nil
	s.mu.Unlock()
	if handle != nil {
		_ = handle.Close()
	}
}

// Close aborts the session: the stream and the event channel are torn down
// without draining. The session cannot be restarted afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	handle := s.handle
	cancel := s.cancel
	s.handle = nil
	s.cancel = nil
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if handle != nil {
		_ = handle.Close()
	}
}

// pump owns the transcript channels and the trailing-silence timer. It runs
// until the provider closes its channels, the timer fires, or the context is
// cancelled, and always emits at most one EventEnded.
func (s *Session) pump(ctx context.Context, handle stt.SessionHandle) {
	timer := time.NewTimer(s.silenceTimeout)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	// armed becomes true on the first final transcript and stays true: every
	// later result, partial or final, pushes the deadline out again.
	armed := false
	rearm := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.silenceTimeout)
	}

	partials, finals := handle.Partials(), handle.Finals()
	for {
		select {
		case t, ok := <-partials:
			if !ok {
				partials = nil
				if finals == nil {
					s.finish(ctx, false)
					return
				}
				continue
			}
			s.emit(Event{Kind: EventInterim, Transcript: t})
			if armed {
				rearm()
			}

		case t, ok := <-finals:
			if !ok {
				finals = nil
				if partials == nil {
					s.finish(ctx, false)
					return
				}
				continue
			}
			s.emit(Event{Kind: EventFinal, Transcript: t})
			armed = true
			rearm()

		case <-timer.C:
			_ = handle.Close()
			s.finish(ctx, true)
			return

		case <-ctx.Done():
			_ = handle.Close()
			s.finish(ctx, false)
			return
		}
	}
}

// finish marks the session idle and emits the terminal events.
func (s *Session) finish(ctx context.Context, silence bool) {
	s.mu.Lock()
	wasListening := s.listening
	s.listening = false
	s.handle = nil
	s.mu.Unlock()

	if wasListening {
		s.metrics.ActiveVoiceSessions.Add(context.WithoutCancel(ctx), -1)
	}
	if silence {
		s.emit(Event{Kind: EventSilenceTimeout})
	}
	s.emit(Event{Kind: EventEnded})

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mu.Unlock()
}

// emit delivers ev without ever blocking the pump. Events after Close are
// dropped; a consumer that stops reading forfeits later events rather than
// wedging the session.
func (s *Session) emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		slog.Warn("dropping voice event, consumer too slow", "kind", ev.Kind)
	}
}
