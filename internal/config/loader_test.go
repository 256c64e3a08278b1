package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/akwaba-labs/djobi/internal/config"
)

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()
	yaml := `
providers:
  llm:
    name: gemini
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("default listen_addr = %q, want :8080", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("default log_level = %q, want info", cfg.Server.LogLevel)
	}
	if cfg.Store.Backend != config.StoreMemory {
		t.Errorf("default store backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Voice.SilenceTimeout != 5*time.Second {
		t.Errorf("default silence_timeout = %v, want 5s", cfg.Voice.SilenceTimeout)
	}
	if cfg.Voice.Language != "fr-FR" {
		t.Errorf("default voice language = %q, want fr-FR", cfg.Voice.Language)
	}
	if cfg.Voice.SampleRate != 16000 {
		t.Errorf("default sample_rate = %d, want 16000", cfg.Voice.SampleRate)
	}
	if cfg.Search.AssistDebounce != time.Second {
		t.Errorf("default assist_debounce = %v, want 1s", cfg.Search.AssistDebounce)
	}
	if cfg.Search.MinAssistQueryLen != 4 {
		t.Errorf("default min_assist_query_len = %d, want 4", cfg.Search.MinAssistQueryLen)
	}
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()
	yaml := `
store:
  backend: postgres
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for postgres backend without DSN, got nil")
	}
	if !strings.Contains(err.Error(), "postgres_dsn") {
		t.Errorf("error should mention postgres_dsn, got: %v", err)
	}
}

func TestValidate_RedisRequiresAddr(t *testing.T) {
	t.Parallel()
	yaml := `
store:
  backend: redis
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for redis backend without addr, got nil")
	}
	if !strings.Contains(err.Error(), "redis_addr") {
		t.Errorf("error should mention redis_addr, got: %v", err)
	}
}

func TestValidate_SemanticRequiresPostgres(t *testing.T) {
	t.Parallel()
	yaml := `
store:
  backend: memory
search:
  semantic: true
  embedding_dimensions: 1536
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for semantic search on memory store, got nil")
	}
	if !strings.Contains(err.Error(), "semantic") {
		t.Errorf("error should mention semantic, got: %v", err)
	}
}

func TestValidate_SemanticRequiresDimensions(t *testing.T) {
	t.Parallel()
	yaml := `
store:
  backend: postgres
  postgres_dsn: "postgres://localhost/djobi"
search:
  semantic: true
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for semantic search without dimensions, got nil")
	}
	if !strings.Contains(err.Error(), "embedding_dimensions") {
		t.Errorf("error should mention embedding_dimensions, got: %v", err)
	}
}

func TestValidate_TLSRequiresBothFiles(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  tls:
    cert_file: /etc/djobi/cert.pem
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for TLS with missing key file, got nil")
	}
	if !strings.Contains(err.Error(), "key_file") {
		t.Errorf("error should mention key_file, got: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: loud
store:
  backend: postgres
chat:
  temperature: 3.5
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected errors, got nil")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
	if !strings.Contains(errStr, "postgres_dsn") {
		t.Errorf("error should mention postgres_dsn, got: %v", err)
	}
	if !strings.Contains(errStr, "temperature") {
		t.Errorf("error should mention temperature, got: %v", err)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_adress: ":8080"
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for misspelled config key, got nil")
	}
}

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_addr: ":9090"
  log_level: debug
providers:
  llm:
    name: gemini
    api_key: test-key
    model: gemini-2.0-flash
  stt:
    name: deepgram
    api_key: dg-key
  ocr:
    name: simulated
  embeddings:
    name: ollama
    base_url: http://localhost:11434
store:
  backend: redis
  redis_addr: localhost:6379
  seed: true
search:
  assist_debounce: 750ms
  min_assist_query_len: 3
voice:
  silence_timeout: 8s
  language: en-US
chat:
  temperature: 0.7
  max_tokens: 1024
  history_limit: 20
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("llm model = %q, want gemini-2.0-flash", cfg.Providers.LLM.Model)
	}
	if cfg.Providers.OCR.Name != "simulated" {
		t.Errorf("ocr provider = %q, want simulated", cfg.Providers.OCR.Name)
	}
	if !cfg.Store.Seed {
		t.Error("store.seed should be true")
	}
	if cfg.Search.AssistDebounce != 750*time.Millisecond {
		t.Errorf("assist_debounce = %v, want 750ms", cfg.Search.AssistDebounce)
	}
	if cfg.Voice.SilenceTimeout != 8*time.Second {
		t.Errorf("silence_timeout = %v, want 8s", cfg.Voice.SilenceTimeout)
	}
	if cfg.Chat.HistoryLimit != 20 {
		t.Errorf("history_limit = %d, want 20", cfg.Chat.HistoryLimit)
	}
}

func TestValidProviderNames(t *testing.T) {
	t.Parallel()
	if len(config.ValidProviderNames) == 0 {
		t.Fatal("ValidProviderNames should not be empty")
	}
	sttNames := config.ValidProviderNames["stt"]
	if len(sttNames) == 0 {
		t.Fatal("ValidProviderNames[\"stt\"] should not be empty")
	}
	found := false
	for _, n := range sttNames {
		if n == "deepgram" {
			found = true
			break
		}
	}
	if !found {
		t.Error("ValidProviderNames[\"stt\"] should contain \"deepgram\"")
	}
}
