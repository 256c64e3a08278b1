// Package chat implements the French-language entrepreneurship assistant.
//
// The assistant is deliberately forgiving: Send never returns an error to the
// caller. A provider failure or an empty model reply maps to one of two fixed
// French fallback strings, so the conversation surface always has something
// to show.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/akwaba-labs/djobi/internal/observe"
	"github.com/akwaba-labs/djobi/pkg/provider/llm"
	"github.com/akwaba-labs/djobi/pkg/types"
)

// The two fallback replies, verbatim strings the web client expects.
const (
	// FallbackEmpty is returned when the model produced no usable text.
	FallbackEmpty = "Je n'ai pas pu traiter votre question. Pouvez-vous reformuler ?"

	// FallbackError is returned when the provider call failed.
	FallbackError = "Désolé, je rencontre des difficultés techniques. Réessayez dans quelques instants."
)

const personaPrompt = `Tu es un assistant spécialisé dans l'entrepreneuriat africain, particulièrement le secteur informel.

CONTEXTE AFRICAIN:
- Tu connais les réalités économiques africaines
- Tu comprends les défis spécifiques du secteur informel
- Tu donnes des conseils pratiques et réalistes
- Tu utilises des exemples locaux et familiers
- Tu encourages et motive les entrepreneurs

DOMAINES D'EXPERTISE:
- Démarrer une activité (petit commerce, service, artisanat)
- Gérer l'argent et les finances basiques
- Attirer et fidéliser les clients
- S'organiser et gérer le temps
- Développer son activité progressivement
- S'adapter aux difficultés économiques
- Utiliser les technologies simples (WhatsApp, réseaux sociaux)
- Travailler en réseau avec d'autres entrepreneurs

STYLE DE RÉPONSE:
- Utilise un langage simple et accessible
- Donne des conseils concrets et pratiques
- Utilise des emojis pour rendre le texte plus vivant
- Structure tes réponses avec des points clairs
- Encourage et motive l'utilisateur
- Adapte tes conseils au contexte local africain

Réponds de manière encourageante, pratique et adaptée au contexte africain. Utilise des emojis et structure bien tes réponses.`

// Assistant answers entrepreneurship questions through an LLM provider. Each
// Send is a single stateless best-effort call. Safe for concurrent use.
type Assistant struct {
	provider    llm.Provider
	temperature float64
	maxTokens   int
	metrics     *observe.Metrics
}

// AssistantOption configures an [Assistant].
type AssistantOption func(*Assistant)

// WithTemperature sets the sampling temperature for assistant replies.
func WithTemperature(temp float64) AssistantOption {
	return func(a *Assistant) { a.temperature = temp }
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) AssistantOption {
	return func(a *Assistant) { a.maxTokens = n }
}

// WithMetrics records chat counters on m instead of the default instrument
// set.
func WithMetrics(m *observe.Metrics) AssistantOption {
	return func(a *Assistant) { a.metrics = m }
}

// NewAssistant creates an Assistant backed by provider.
func NewAssistant(provider llm.Provider, opts ...AssistantOption) *Assistant {
	a := &Assistant{provider: provider}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	return a
}

// Send asks the assistant one question and always returns displayable French
// text. Provider failures and empty replies are logged and mapped to the
// fixed fallback strings; the caller never sees an error.
func (a *Assistant) Send(ctx context.Context, text string) string {
	if a.provider == nil {
		a.metrics.RecordChatMessage(ctx, "fallback")
		return FallbackError
	}

	start := time.Now()
	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: personaPrompt,
		Messages: []types.Message{{
			Role:    "user",
			Content: text,
		}},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	a.metrics.LLMDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		slog.Warn("chat completion failed", "error", err)
		a.metrics.RecordChatMessage(ctx, "fallback")
		return FallbackError
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		slog.Warn("chat completion returned empty content")
		a.metrics.RecordChatMessage(ctx, "fallback")
		return FallbackEmpty
	}

	a.metrics.RecordChatMessage(ctx, "ok")
	return resp.Content
}
