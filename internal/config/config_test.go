package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RxEnabled {
		t.Fatalf("receiver must be disabled by default")
	}
	if cfg.RxPort != 3033 || cfg.RxBind != "0.0.0.0" {
		t.Fatalf("unexpected receiver defaults: %d %s", cfg.RxPort, cfg.RxBind)
	}
	if cfg.ReportWindow != 60 || cfg.ReportSchedule != "*/15 * * * *" {
		t.Fatalf("unexpected report defaults: %d %q", cfg.ReportWindow, cfg.ReportSchedule)
	}
	if cfg.LLMProvider != ProviderNone {
		t.Fatalf("llm narration must be off by default, got %q", cfg.LLMProvider)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EOS_RX_ENABLED", "true")
	t.Setenv("EOS_RX_PORT", "9000")
	t.Setenv("LLM_PROVIDER", "openai")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.RxEnabled || cfg.RxPort != 9000 || cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("EOS_RX_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out of range port")
	}

	t.Setenv("EOS_RX_PORT", "3033")
	t.Setenv("LLM_PROVIDER", "nope")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
