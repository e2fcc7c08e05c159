package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fastGenerator shrinks retry delays so failure paths stay quick.
func fastGenerator(baseURL string, opts ...HTTPOption) *HTTPGenerator {
	g := NewHTTPGenerator(baseURL, opts...)
	g.baseDelay = time.Millisecond
	return g
}

func TestHTTPGeneratorHappyPath(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate", r.URL.Path)
		var req struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]string{"text": "generated answer"})
	}))
	defer srv.Close()

	g := fastGenerator(srv.URL)
	out, err := g.Generate(context.Background(), "system rules", "user prompt")
	require.NoError(t, err)
	require.Equal(t, "generated answer", out)
	require.Equal(t, "system rules\n\nuser prompt", gotPrompt)
}

func TestHTTPGeneratorGeneratedTextFallbackField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"generated_text": "alt field"})
	}))
	defer srv.Close()

	g := fastGenerator(srv.URL)
	out, err := g.Generate(context.Background(), "", "p")
	require.NoError(t, err)
	require.Equal(t, "alt field", out)
}

func TestHTTPGeneratorRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer srv.Close()

	g := fastGenerator(srv.URL)
	out, err := g.Generate(context.Background(), "", "p")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, 3, calls)
}

func TestHTTPGeneratorExhaustsAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := fastGenerator(srv.URL)
	_, err := g.Generate(context.Background(), "", "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 4 attempts")
}

func TestHTTPGeneratorContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := fastGenerator(srv.URL)
	_, err := g.Generate(ctx, "", "p")
	require.Error(t, err)
}

func TestHTTPGeneratorTokenBudgetTruncates(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer srv.Close()

	long := ""
	for i := 0; i < 2000; i++ {
		long += "weather "
	}
	g := fastGenerator(srv.URL, WithTokenBudget(16))
	_, err := g.Generate(context.Background(), "", long)
	require.NoError(t, err)
	require.Less(t, len(gotPrompt), len(long))
}

func TestCounterFallbackEstimate(t *testing.T) {
	c := &Counter{} // no encoding: chars/4 estimate
	require.Equal(t, 0, c.Count(""))
	require.Equal(t, 1, c.Count("hi"))
	require.Equal(t, 3, c.Count("twelve chars"))

	require.Equal(t, "abcd", c.Truncate("abcdefgh", 1))
	require.Equal(t, "abc", c.Truncate("abc", 10))
	require.Equal(t, "abc", c.Truncate("abc", 0))
}

func TestMockGenerator(t *testing.T) {
	m := NewMock()
	out, err := m.Generate(context.Background(), "sys", "what weather?")
	require.NoError(t, err)
	require.Contains(t, out, `"title"`)
	require.Equal(t, []string{"what weather?"}, m.Prompts)
}
