package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_TOKENS", "LLM_TEMPERATURE",
		"LLM_RETRY_MAX_ATTEMPTS", "HUGGINGFACE_API_KEY", "ANTHROPIC_API_KEY", "API_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadIncludesClassificationDefaults(t *testing.T) {
	clearLLMEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMProvider != ProviderHuggingFace {
		t.Fatalf("expected default provider huggingface, got %q", cfg.LLMProvider)
	}
	if cfg.LLMMaxTokens != 100 {
		t.Fatalf("expected default max tokens 100, got %d", cfg.LLMMaxTokens)
	}
	if cfg.LLMTemperature != 0.1 {
		t.Fatalf("expected default temperature 0.1, got %v", cfg.LLMTemperature)
	}
	if cfg.LLMRetryMaxAttempts != 1 {
		t.Fatalf("expected no retry by default, got %d attempts", cfg.LLMRetryMaxAttempts)
	}
	if cfg.APIPort != "8000" {
		t.Fatalf("expected default api port 8000, got %q", cfg.APIPort)
	}
	if cfg.Model() != "Qwen/Qwen2.5-7B-Instruct" {
		t.Fatalf("unexpected default model %q", cfg.Model())
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_PROVIDER", "Ollama")
	t.Setenv("LLM_MODEL", "llama3.1:8b")
	t.Setenv("LLM_MAX_TOKENS", "64")
	t.Setenv("LLM_TEMPERATURE", "0")
	t.Setenv("LLM_RETRY_MAX_ATTEMPTS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMProvider != ProviderOllama {
		t.Fatalf("expected provider override, got %q", cfg.LLMProvider)
	}
	if cfg.Model() != "llama3.1:8b" {
		t.Fatalf("expected model override, got %q", cfg.Model())
	}
	if cfg.LLMMaxTokens != 64 || cfg.LLMTemperature != 0 {
		t.Fatalf("unexpected generation overrides: %d %v", cfg.LLMMaxTokens, cfg.LLMTemperature)
	}
	if cfg.LLMRetryMaxAttempts != 1 {
		t.Fatalf("invalid int must fall back to default, got %d", cfg.LLMRetryMaxAttempts)
	}
}

func TestLoadReadsYAMLFileBelowEnv(t *testing.T) {
	clearLLMEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "llm_provider: anthropic\nanthropic_api_key: from-file\napi_port: 9001\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_PORT", "7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMProvider != ProviderAnthropic || cfg.AnthropicAPIKey != "from-file" {
		t.Fatalf("expected values from file, got %q %q", cfg.LLMProvider, cfg.AnthropicAPIKey)
	}
	if cfg.APIPort != "7000" {
		t.Fatalf("env must win over file, got %q", cfg.APIPort)
	}
}

func TestLoadFailsOnUnreadableFile(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestValidateRequiresProviderCredential(t *testing.T) {
	cfg := Config{LLMProvider: ProviderHuggingFace, PostgresDSN: "postgres://x"}
	if err := cfg.Validate(); !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}

	cfg.HuggingFaceAPIKey = "hf_test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg.LLMProvider = "gpt-9000"
	if err := cfg.Validate(); !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown provider, got %v", err)
	}
}
