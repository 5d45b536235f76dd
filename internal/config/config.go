package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderNone   LLMProvider = ""
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// Console
	EosHost string `env:"EOS_HOST" envDefault:"192.168.1.100"`
	EosPort int    `env:"EOS_PORT" envDefault:"3032"`
	EosUser int    `env:"EOS_USER" envDefault:"1"`

	// Feedback receiver
	RxEnabled     bool   `env:"EOS_RX_ENABLED" envDefault:"false"`
	RxPort        int    `env:"EOS_RX_PORT" envDefault:"3033"`
	RxBind        string `env:"EOS_RX_BIND" envDefault:"0.0.0.0"`
	RxLogMessages bool   `env:"EOS_RX_LOG_MESSAGES" envDefault:"false"`

	// Observability
	MetricsAddr string `env:"METRICS_ADDR"`

	// Scheduled insights reports
	ReportPath     string `env:"INSIGHTS_REPORT_PATH"`
	ReportSchedule string `env:"INSIGHTS_REPORT_SCHEDULE" envDefault:"*/15 * * * *"`
	ReportWindow   int    `env:"INSIGHTS_REPORT_WINDOW" envDefault:"60"`

	// LLM narration (optional)
	LLMProvider      LLMProvider `env:"LLM_PROVIDER"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`
}

// Load parses the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.RxPort < 0 || c.RxPort > 65535 {
		return fmt.Errorf("EOS_RX_PORT out of range: %d", c.RxPort)
	}
	switch c.LLMProvider {
	case ProviderNone, ProviderOpenAI, ProviderYandex:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER: %s", c.LLMProvider)
	}
	return nil
}
