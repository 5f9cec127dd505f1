package llm

import (
	"github.com/r88510179-collab/breakfast-klub/internal/config"
)

// Provider describes one upstream chat-completion endpoint. Descriptors are
// built once from config and passed into the router explicitly so call
// order is deterministic under test.
type Provider struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

func (p Provider) configured() bool {
	return p.APIKey != "" && p.Model != "" && p.BaseURL != ""
}

// ProvidersFromConfig resolves the primary and verifier call orders.
// Unknown names and providers without a key or model are dropped.
func ProvidersFromConfig(cfg config.ProvidersConfig) (primary, verifier []Provider) {
	byName := map[string]Provider{
		"openai":   {Name: "openai", BaseURL: cfg.OpenAIBaseURL, APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel},
		"kimi":     {Name: "kimi", BaseURL: cfg.KimiBaseURL, APIKey: cfg.KimiAPIKey, Model: cfg.KimiModel},
		"groq":     {Name: "groq", BaseURL: cfg.GroqBaseURL, APIKey: cfg.GroqAPIKey, Model: cfg.GroqModel},
		"deepseek": {Name: "deepseek", BaseURL: cfg.DeepSeekBaseURL, APIKey: cfg.DeepSeekAPIKey, Model: cfg.DeepSeekModel},
	}
	primary = orderProviders(byName, config.SplitOrder(cfg.PrimaryOrder))
	verifier = orderProviders(byName, config.SplitOrder(cfg.VerifierOrder))
	return primary, verifier
}

func orderProviders(byName map[string]Provider, order []string) []Provider {
	out := make([]Provider, 0, len(order))
	for _, name := range order {
		p, ok := byName[name]
		if !ok || !p.configured() {
			continue
		}
		out = append(out, p)
	}
	return out
}
