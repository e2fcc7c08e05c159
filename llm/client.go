// Package llm provides TextGenerator implementations: the fine-tuned
// writer's /generate HTTP endpoint, an OpenAI-compatible backend, and a
// canned mock for tests.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mitraarka27/Meteo-Chat/pkg/metrics"
)

// generateRequest and generateResponse are the wire contract of the
// writer model's /generate endpoint.
type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text          string `json:"text"`
	GeneratedText string `json:"generated_text"`
}

// HTTPGenerator calls the writer model's /generate endpoint with rate
// limiting, a circuit breaker and exponential-backoff retries.
type HTTPGenerator struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	counter *Counter
	logger  *zap.Logger
	metrics *metrics.Metrics

	maxAttempts int
	baseDelay   time.Duration
	tokenBudget int
}

// HTTPOption configures an HTTPGenerator.
type HTTPOption func(*HTTPGenerator)

// WithLogger sets the generator's logger.
func WithLogger(l *zap.Logger) HTTPOption {
	return func(g *HTTPGenerator) { g.logger = l }
}

// WithMetrics sets the generator's metrics.
func WithMetrics(m *metrics.Metrics) HTTPOption {
	return func(g *HTTPGenerator) { g.metrics = m }
}

// WithTokenBudget caps prompt size in tokens; oversized prompts are
// truncated before sending.
func WithTokenBudget(budget int) HTTPOption {
	return func(g *HTTPGenerator) { g.tokenBudget = budget }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *HTTPGenerator) { g.client = c }
}

// NewHTTPGenerator creates a generator for the given base URL.
func NewHTTPGenerator(baseURL string, opts ...HTTPOption) *HTTPGenerator {
	g := &HTTPGenerator{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 45 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(2), 4),
		counter:     NewCounter(),
		maxAttempts: 4,
		baseDelay:   300 * time.Millisecond,
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-generate",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	})
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements core.TextGenerator. The system text is prepended
// to the prompt since /generate takes a single string.
func (g *HTTPGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	full := prompt
	if system != "" {
		full = system + "\n\n" + prompt
	}
	if g.tokenBudget > 0 {
		before := g.counter.Count(full)
		full = g.counter.Truncate(full, g.tokenBudget)
		if after := g.counter.Count(full); after < before && g.logger != nil {
			g.logger.Warn("prompt_truncated", zap.Int("tokens_before", before), zap.Int("tokens_after", after))
		}
	}
	if full == "" {
		return "", nil
	}

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := g.baseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}

		result, err := g.breaker.Execute(func() (interface{}, error) {
			return g.post(ctx, full)
		})
		if err == nil {
			g.observe("ok")
			return result.(string), nil
		}
		lastErr = err
		g.observe("error")
		if g.logger != nil {
			g.logger.Warn("generate_retry", zap.Int("attempt", attempt+1), zap.Error(err))
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("generate failed after %d attempts: %w", g.maxAttempts, lastErr)
}

func (g *HTTPGenerator) post(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post /generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate returned %d: %s", resp.StatusCode, payload)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Text != "" {
		return out.Text, nil
	}
	return out.GeneratedText, nil
}

func (g *HTTPGenerator) observe(status string) {
	if g.metrics != nil {
		g.metrics.LLMRequestsTotal.WithLabelValues("http", status).Inc()
	}
}
