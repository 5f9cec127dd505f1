package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/r88510179-collab/breakfast-klub/internal/metrics"
)

var ErrNoProviders = errors.New("no providers configured")

type Strategy string

const (
	StrategyFast     Strategy = "fast"
	StrategyBalanced Strategy = "balanced"
)

const (
	fastMaxTokens      = 600
	balancedMaxTokens  = 2000
	primaryTemperature = 0.2
)

// Router tries an ordered list of interchangeable providers and returns the
// first usable completion. A failing provider is skipped for the current
// call only; there are no retries, no backoff and no circuit breaker.
type Router struct {
	primary  []Provider
	verifier []Provider
	client   *http.Client
}

func New(primary, verifier []Provider, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Router{
		primary:  primary,
		verifier: verifier,
		client:   &http.Client{Timeout: timeout},
	}
}

// Completion is one provider answer plus the name of the provider that
// produced it, for provenance records.
type Completion struct {
	Provider string
	Content  string
}

// Primary iterates the primary provider order. Strategy picks the token
// budget: fast for short answers, balanced for structured extractions.
func (r *Router) Primary(ctx context.Context, strategy Strategy, msgs []Message) (string, error) {
	c, err := r.PrimaryCompletion(ctx, strategy, msgs)
	return c.Content, err
}

func (r *Router) PrimaryCompletion(ctx context.Context, strategy Strategy, msgs []Message) (Completion, error) {
	maxTokens := balancedMaxTokens
	if strategy == StrategyFast {
		maxTokens = fastMaxTokens
	}
	return r.iterate(ctx, r.primary, msgs, primaryTemperature, maxTokens)
}

// Verifier iterates the verifier order at temperature zero.
func (r *Router) Verifier(ctx context.Context, msgs []Message) (string, error) {
	c, err := r.VerifierCompletion(ctx, msgs)
	return c.Content, err
}

func (r *Router) VerifierCompletion(ctx context.Context, msgs []Message) (Completion, error) {
	return r.iterate(ctx, r.verifier, msgs, 0, balancedMaxTokens)
}

// Consensus holds one slot per parallel attempt; a slot is nil when its
// provider failed or was not configured. The two answers are never merged.
type Consensus struct {
	A *string `json:"a"`
	B *string `json:"b"`
}

// Consensus asks the first two providers in parallel. If both fail it falls
// back to sequential iteration over the remaining providers, filling slot A.
func (r *Router) Consensus(ctx context.Context, msgs []Message) (Consensus, error) {
	if len(r.primary) == 0 {
		return Consensus{}, ErrNoProviders
	}
	pair := r.primary
	if len(pair) > 2 {
		pair = pair[:2]
	}

	texts := make([]*string, len(pair))
	fails := make([]string, len(pair))
	var wg sync.WaitGroup
	for i, p := range pair {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			text, err := r.call(ctx, p, msgs, primaryTemperature, balancedMaxTokens)
			if err != nil {
				fails[i] = p.Name + ": " + err.Error()
				return
			}
			texts[i] = &text
		}(i, p)
	}
	wg.Wait()

	out := Consensus{A: texts[0]}
	if len(texts) > 1 {
		out.B = texts[1]
	}
	if out.A != nil || out.B != nil {
		return out, nil
	}

	rest := r.primary[len(pair):]
	c, err := r.iterate(ctx, rest, msgs, primaryTemperature, balancedMaxTokens)
	if err != nil {
		reasons := append([]string{}, fails...)
		if !errors.Is(err, ErrNoProviders) {
			reasons = append(reasons, err.Error())
		}
		return Consensus{}, fmt.Errorf("all providers failed: %s", strings.Join(reasons, "; "))
	}
	return Consensus{A: &c.Content}, nil
}

func (r *Router) iterate(ctx context.Context, providers []Provider, msgs []Message, temperature float64, maxTokens int) (Completion, error) {
	if len(providers) == 0 {
		return Completion{}, ErrNoProviders
	}
	var failures []string
	for _, p := range providers {
		text, err := r.call(ctx, p, msgs, temperature, maxTokens)
		if err == nil {
			return Completion{Provider: p.Name, Content: text}, nil
		}
		failures = append(failures, p.Name+": "+err.Error())
	}
	return Completion{}, fmt.Errorf("all providers failed: %s", strings.Join(failures, "; "))
}

func (r *Router) call(ctx context.Context, p Provider, msgs []Message, temperature float64, maxTokens int) (text string, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveProviderCall(p.Name, time.Since(start), err)
	}()

	body, err := json.Marshal(chatRequest{
		Model:       p.Model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	url := strings.TrimRight(p.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
