// Package testutil provides shared test helpers for config files and a fake model server.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michaelanticoli/quantumelodic/internal/inference"
)

// SetupTestConfig creates a minimal config file using the memory driver and no request delay.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	cacheDir := filepath.Join(tmpDir, "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))

	configContent := fmt.Sprintf(`generator:
  provider: openai
  output_mode: structured
  batch_size: 20
  request_delay: 0s
cache:
  directory: %s
storage:
  driver: memory
`, cacheDir)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithServer creates a config file whose OpenAI client points at baseURL
func SetupTestConfigWithServer(t *testing.T, tmpDir string, baseURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, fmt.Appendf(nil, "openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n  base_url: %s\n", baseURL)...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// DescriptionsOf returns deterministic descriptions for term
func DescriptionsOf(term string) inference.Descriptions {
	return inference.Descriptions{
		Astrology: inference.AstrologyDescription{
			Definition: term + " in the natal chart",
			KeyPoints:  []string{"planets", "houses"},
			Example:    term + " in the tenth house",
		},
		Music: inference.MusicDescription{
			Analogy:   term + " as a chord progression",
			KeyPoints: []string{"tension", "release"},
			Example:   term + " in a sonata",
		},
		Mathematics: inference.MathematicsDescription{
			Concept:   term + " as a sequence",
			KeyPoints: []string{"order"},
			Example:   term + " of integers",
		},
	}
}

// FakeOpenAIServer answers chat completions with DescriptionsOf the requested term
type FakeOpenAIServer struct {
	*httptest.Server
	failing []string
	calls   atomic.Int32
}

// NewFakeOpenAIServer starts a server that fails with 500 for the terms in failing
func NewFakeOpenAIServer(t *testing.T, failing ...string) *FakeOpenAIServer {
	t.Helper()
	fake := &FakeOpenAIServer{failing: failing}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.Close)
	return fake
}

func (fake *FakeOpenAIServer) Calls() int {
	return int(fake.calls.Load())
}

func (fake *FakeOpenAIServer) handle(w http.ResponseWriter, r *http.Request) {
	fake.calls.Add(1)
	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}

	var request struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var term string
	for _, message := range request.Messages {
		if message.Role == "user" {
			term = extractTerm(message.Content)
		}
	}
	if slices.Contains(fake.failing, term) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
		return
	}

	content, err := json.Marshal(DescriptionsOf(term))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": string(content)},
				"finish_reason": "stop",
			},
		},
	})
}

func extractTerm(prompt string) string {
	const prefix = "for the term '"
	start := strings.Index(prompt, prefix)
	if start < 0 {
		return ""
	}
	rest := prompt[start+len(prefix):]
	end := strings.Index(rest, "' in the context")
	if end < 0 {
		return ""
	}
	return rest[:end]
}
