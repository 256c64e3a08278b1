package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/akwaba-labs/djobi/internal/voice"
)

// voiceControl is a text frame from the client. Binary frames carry raw PCM
// audio and need no envelope.
type voiceControl struct {
	// Type is "start" or "stop".
	Type string `json:"type"`

	// Language selects the recognition language on "start" (default fr-FR).
	Language string `json:"language,omitempty"`

	// SampleRate and Channels describe the PCM the client will send. When
	// they differ from the server format the audio is converted before
	// transcription. Zero means the client already sends the server format.
	SampleRate int `json:"sampleRate,omitempty"`
	Channels   int `json:"channels,omitempty"`
}

// voiceEvent is a server-to-client frame mirroring one session event.
type voiceEvent struct {
	Type       string  `json:"type"`
	Text       string  `json:"text,omitempty"`
	IsFinal    bool    `json:"isFinal,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// voiceConn holds the per-connection state of one websocket capture session.
type voiceConn struct {
	srv     *Server
	conn    *websocket.Conn
	session *voice.Session

	// norm converts client audio to the session format. Nil when the client
	// already sends mono PCM at the server sample rate.
	norm *voice.Normalizer
}

// handleVoice upgrades to a websocket and runs one capture session per
// connection: the client sends a "start" control frame then streams binary
// audio; the server streams tagged events until the session ends.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.sttProv == nil {
		writeError(w, http.StatusServiceUnavailable, "reconnaissance vocale non configurée")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("voice websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session terminée")

	ctx := r.Context()
	session := voice.NewSession(s.sttProv,
		voice.WithSilenceTimeout(s.silenceTimeout),
		voice.WithSampleRate(s.sampleRate),
		voice.WithSessionMetrics(s.metrics),
	)
	defer session.Close()

	vc := &voiceConn{srv: s, conn: conn, session: session}

	// Event writer: one goroutine owns all writes so frames keep session
	// order.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for ev := range session.Events() {
			frame := voiceEvent{Type: string(ev.Kind)}
			switch ev.Kind {
			case voice.EventInterim, voice.EventFinal:
				frame.Text = ev.Transcript.Text
				frame.IsFinal = ev.Transcript.IsFinal
				frame.Confidence = ev.Transcript.Confidence
			case voice.EventError:
				frame.Error = ev.Err.Error()
			}
			if err := wsjson.Write(ctx, conn, frame); err != nil {
				return
			}
		}
		// Session over: closing the connection unblocks the reader loop.
		conn.Close(websocket.StatusNormalClosure, "fin de session")
	}()

	// Reader loop: control frames are JSON text, audio frames are binary.
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		switch msgType {
		case websocket.MessageText:
			var ctrl voiceControl
			if err := json.Unmarshal(data, &ctrl); err != nil {
				_ = wsjson.Write(ctx, conn, voiceEvent{Type: "error", Error: "commande invalide"})
				continue
			}
			vc.handleControl(ctx, ctrl)

		case websocket.MessageBinary:
			vc.forwardAudio(data)
		}
	}

	session.Close()
	<-writerDone
	conn.Close(websocket.StatusNormalClosure, "fin de session")
}

func (vc *voiceConn) handleControl(ctx context.Context, ctrl voiceControl) {
	switch ctrl.Type {
	case "start":
		if ctrl.Language != "" {
			if err := vc.session.SetLanguage(ctrl.Language); err != nil {
				_ = wsjson.Write(ctx, vc.conn, voiceEvent{Type: "error", Error: "langue non supportée: " + ctrl.Language})
				return
			}
		}
		vc.norm = nil
		if ctrl.SampleRate > 0 && (ctrl.SampleRate != vc.srv.sampleRate || ctrl.Channels > 1) {
			channels := ctrl.Channels
			if channels == 0 {
				channels = 1
			}
			vc.norm = voice.NewNormalizer(
				voice.PCMFormat{SampleRate: ctrl.SampleRate, Channels: channels},
				vc.srv.sampleRate,
			)
		}
		if err := vc.session.Start(ctx); err != nil && !errors.Is(err, voice.ErrSessionActive) {
			slog.Warn("voice session start failed", "error", err)
		}

	case "stop":
		vc.session.Stop()

	default:
		_ = wsjson.Write(ctx, vc.conn, voiceEvent{Type: "error", Error: "commande inconnue: " + ctrl.Type})
	}
}

func (vc *voiceConn) forwardAudio(data []byte) {
	if vc.norm != nil {
		data = vc.norm.Normalize(data)
		if len(data) == 0 {
			return
		}
	}
	if err := vc.session.SendAudio(data); err != nil && !errors.Is(err, voice.ErrNotListening) {
		slog.Warn("voice audio forward failed", "error", err)
	}
}
