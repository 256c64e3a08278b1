package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames maps each provider type to the set of implementation
// names that can appear in configuration. Validation warns (rather than fails)
// on unknown names, so out-of-tree providers registered at runtime still work.
var ValidProviderNames = map[string][]string{
	"llm":        {"openai", "gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp"},
	"stt":        {"deepgram", "whisper"},
	"ocr":        {"lightpdf", "simulated"},
	"embeddings": {"openai", "ollama"},
}

// Load reads and parses a YAML configuration file from the given path.
// The returned config has been validated and defaulted; see [Config.Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader parses YAML configuration from r. Unknown fields are
// rejected so typos in config keys surface immediately.
func LoadFromReader(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for errors and applies defaults for
// omitted fields. All problems are reported together via errors.Join.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	} else if !c.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level: unknown level %q", c.Server.LogLevel))
	}
	if tls := c.Server.TLS; tls != nil {
		if tls.CertFile == "" || tls.KeyFile == "" {
			errs = append(errs, errors.New("server.tls: cert_file and key_file are both required"))
		}
	}

	validateProviderName("llm", c.Providers.LLM.Name)
	validateProviderName("stt", c.Providers.STT.Name)
	validateProviderName("ocr", c.Providers.OCR.Name)
	validateProviderName("embeddings", c.Providers.Embeddings.Name)

	if c.Store.Backend == "" {
		c.Store.Backend = StoreMemory
	} else if !c.Store.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	if c.Store.Backend == StorePostgres && c.Store.PostgresDSN == "" {
		errs = append(errs, errors.New("store.postgres_dsn: required when backend is postgres"))
	}
	if c.Store.Backend == StoreRedis && c.Store.RedisAddr == "" {
		errs = append(errs, errors.New("store.redis_addr: required when backend is redis"))
	}
	if c.Store.ListingTTL < 0 {
		errs = append(errs, errors.New("store.listing_ttl: must not be negative"))
	}

	if c.Search.AssistDebounce == 0 {
		c.Search.AssistDebounce = time.Second
	} else if c.Search.AssistDebounce < 0 {
		errs = append(errs, errors.New("search.assist_debounce: must not be negative"))
	}
	if c.Search.MinAssistQueryLen == 0 {
		c.Search.MinAssistQueryLen = 4
	} else if c.Search.MinAssistQueryLen < 0 {
		errs = append(errs, errors.New("search.min_assist_query_len: must not be negative"))
	}
	if c.Search.Semantic {
		if c.Store.Backend != StorePostgres {
			errs = append(errs, errors.New("search.semantic: requires store.backend postgres"))
		}
		if c.Search.EmbeddingDimensions <= 0 {
			errs = append(errs, errors.New("search.embedding_dimensions: required when search.semantic is enabled"))
		}
	}

	if c.Voice.SilenceTimeout == 0 {
		c.Voice.SilenceTimeout = 5 * time.Second
	} else if c.Voice.SilenceTimeout < 0 {
		errs = append(errs, errors.New("voice.silence_timeout: must not be negative"))
	}
	if c.Voice.Language == "" {
		c.Voice.Language = "fr-FR"
	}
	if c.Voice.SampleRate == 0 {
		c.Voice.SampleRate = 16000
	} else if c.Voice.SampleRate < 0 {
		errs = append(errs, errors.New("voice.sample_rate: must not be negative"))
	}

	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		errs = append(errs, fmt.Errorf("chat.temperature: %v out of range [0, 2]", c.Chat.Temperature))
	}
	if c.Chat.MaxTokens < 0 {
		errs = append(errs, errors.New("chat.max_tokens: must not be negative"))
	}
	if c.Chat.HistoryLimit < 0 {
		errs = append(errs, errors.New("chat.history_limit: must not be negative"))
	}

	return errors.Join(errs...)
}

// validateProviderName warns when a configured provider name is not in the
// built-in set. An empty name is fine; the component is simply disabled.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	if slices.Contains(ValidProviderNames[kind], name) {
		return
	}
	slog.Warn("unrecognized provider name in config; relying on runtime registration",
		"kind", kind, "name", name)
}
