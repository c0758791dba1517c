package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/SpectraMediaAI/BettyChat/internal/pkg/env"
)

// Config carries all process-wide settings. It is built once at startup and
// handed to the components that need it; business logic never reads the
// environment directly.
type Config struct {
	BrandName     string
	SupportEmail  string
	PublicBaseURL string

	WebhookSecret string

	LLM  LLMConfig
	SMTP SMTPConfig
}

// LLMConfig configures the downstream chat-completions provider.
type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// SMTPConfig configures outbound onboarding mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// FromEnv assembles a Config from the loaded environment. Call after
// env.SetupEnvFile.
func FromEnv() *Config {
	smtpPort, err := strconv.Atoi(env.GetEnv("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	return &Config{
		BrandName:     env.GetEnv("BRAND_NAME", "Betty Immo"),
		SupportEmail:  env.GetEnv("SUPPORT_EMAIL", "support@spectramedia.ai"),
		PublicBaseURL: strings.TrimRight(env.GetEnv("PUBLIC_BASE_URL", "http://localhost:4000"), "/"),
		WebhookSecret: strings.TrimSpace(env.GetEnv("GUMROAD_WEBHOOK_SECRET", "")),
		LLM: LLMConfig{
			APIKey:  strings.TrimSpace(env.GetEnv("OPENAI_API_KEY", "")),
			Model:   env.GetEnv("LLM_MODEL", "gpt-4o-mini"),
			BaseURL: strings.TrimRight(env.GetEnv("LLM_BASE_URL", "https://api.openai.com/v1"), "/"),
			Timeout: 30 * time.Second,
		},
		SMTP: SMTPConfig{
			Host:     env.GetEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			Username: env.GetEnv("SMTP_USERNAME", ""),
			Password: env.GetEnv("SMTP_PASSWORD", ""),
			Sender:   env.GetEnv("SMTP_SENDER", ""),
		},
	}
}
