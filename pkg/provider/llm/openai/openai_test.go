package openai

import (
	"testing"

	"github.com/akwaba-labs/djobi/pkg/provider/llm"
	"github.com/akwaba-labs/djobi/pkg/types"
)

// TestNew_EmptyAPIKey checks that an empty API key returns an error.
func TestNew_EmptyAPIKey(t *testing.T) {
	_, err := New("", "gpt-4o-mini")
	if err == nil {
		t.Fatal("expected error for empty apiKey")
	}
}

// TestNew_EmptyModel checks that an empty model returns an error.
func TestNew_EmptyModel(t *testing.T) {
	_, err := New("sk-test", "")
	if err == nil {
		t.Fatal("expected error for empty model")
	}
}

// TestNew_WithOptions checks that the constructor accepts options.
func TestNew_WithOptions(t *testing.T) {
	p, err := New("sk-test", "gpt-4o-mini",
		WithBaseURL("http://localhost:8080/v1"),
		WithOrganization("org-test"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
}

// TestBuildParams_SystemPromptFirst checks that the system prompt leads the message list.
func TestBuildParams_SystemPromptFirst(t *testing.T) {
	p := &Provider{model: "gpt-4o-mini"}
	params, err := p.buildParams(llm.CompletionRequest{
		SystemPrompt: "Tu es un assistant.",
		Messages: []types.Message{
			{Role: "user", Content: "Bonjour"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(params.Messages))
	}
	if params.Messages[0].OfSystem == nil {
		t.Error("expected first message to be a system message")
	}
	if params.Messages[1].OfUser == nil {
		t.Error("expected second message to be a user message")
	}
}

// TestBuildParams_Roles checks role conversion for all supported roles.
func TestBuildParams_Roles(t *testing.T) {
	p := &Provider{model: "gpt-4o-mini"}
	params, err := p.buildParams(llm.CompletionRequest{
		Messages: []types.Message{
			{Role: "system", Content: "s"},
			{Role: "user", Content: "u"},
			{Role: "assistant", Content: "a"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Messages[0].OfSystem == nil {
		t.Error("expected system message")
	}
	if params.Messages[1].OfUser == nil {
		t.Error("expected user message")
	}
	if params.Messages[2].OfAssistant == nil {
		t.Error("expected assistant message")
	}
}

// TestBuildParams_UnknownRole checks that an unknown role is rejected.
func TestBuildParams_UnknownRole(t *testing.T) {
	p := &Provider{model: "gpt-4o-mini"}
	_, err := p.buildParams(llm.CompletionRequest{
		Messages: []types.Message{{Role: "narrator", Content: "x"}},
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

// TestBuildParams_JSONMode checks that JSONMode sets the response format.
func TestBuildParams_JSONMode(t *testing.T) {
	p := &Provider{model: "gpt-4o-mini"}
	params, err := p.buildParams(llm.CompletionRequest{
		Messages: []types.Message{{Role: "user", Content: "u"}},
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.ResponseFormat.OfJSONObject == nil {
		t.Error("expected JSON object response format")
	}
}

// TestBuildParams_OptionalParams checks temperature and max token mapping.
func TestBuildParams_OptionalParams(t *testing.T) {
	p := &Provider{model: "gpt-4o-mini"}
	params, err := p.buildParams(llm.CompletionRequest{
		Messages:    []types.Message{{Role: "user", Content: "u"}},
		Temperature: 0.3,
		MaxTokens:   512,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !params.Temperature.Valid() || params.Temperature.Value != 0.3 {
		t.Errorf("expected temperature 0.3, got %+v", params.Temperature)
	}
	if !params.MaxCompletionTokens.Valid() || params.MaxCompletionTokens.Value != 512 {
		t.Errorf("expected max completion tokens 512, got %+v", params.MaxCompletionTokens)
	}
}
