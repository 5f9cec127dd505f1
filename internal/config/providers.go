package config

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// ProvidersConfig carries credentials and model ids for every upstream
// chat-completion provider. A provider with an empty key or model is
// treated as unconfigured and skipped when the call order is built.
type ProvidersConfig struct {
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`

	KimiAPIKey  string `env:"KIMI_API_KEY"`
	KimiModel   string `env:"KIMI_MODEL" envDefault:"moonshot-v1-8k"`
	KimiBaseURL string `env:"KIMI_BASE_URL" envDefault:"https://api.moonshot.ai/v1"`

	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqModel   string `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	GroqBaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`

	DeepSeekAPIKey  string `env:"DEEPSEEK_API_KEY"`
	DeepSeekModel   string `env:"DEEPSEEK_MODEL" envDefault:"deepseek-chat"`
	DeepSeekBaseURL string `env:"DEEPSEEK_BASE_URL" envDefault:"https://api.deepseek.com/v1"`

	// Comma-separated provider names. Unknown or unconfigured names are
	// dropped; an empty order falls back to the declaration order above.
	PrimaryOrder  string `env:"PRIMARY_PROVIDER_ORDER" envDefault:"openai,kimi,groq,deepseek"`
	VerifierOrder string `env:"VERIFIER_PROVIDER_ORDER" envDefault:"groq,deepseek,kimi,openai"`

	TimeoutSecs int `env:"PROVIDER_TIMEOUT_SECONDS" envDefault:"60"`
}

func LoadProviders() (ProvidersConfig, error) {
	var cfg ProvidersConfig
	err := env.Parse(&cfg)
	return cfg, err
}

func SplitOrder(order string) []string {
	parts := strings.Split(order, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
