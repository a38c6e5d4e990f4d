package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(serverURL string) *GeminiClient {
	return &GeminiClient{
		apiKey:     "test-key",
		model:      defaultModel,
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
}

// TestGenerateContentParsesCandidate checks the happy-path response decode.
func TestGenerateContentParsesCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Attendance is "},{"text":"up 5%."}]}}]}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).GenerateContent(context.Background(), "how is attendance?")
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if want := "Attendance is up 5%."; got != want {
		t.Errorf("answer = %q, want %q", got, want)
	}
}

func TestGenerateContentSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).GenerateContent(context.Background(), "q"); err == nil {
		t.Fatal("expected error for non-200 response, got nil")
	}
}

func TestGenerateContentRejectsEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).GenerateContent(context.Background(), "q"); err == nil {
		t.Fatal("expected error for empty candidates, got nil")
	}
}

// TestNewGeminiClientWithoutKey verifies graceful degradation when the API
// key is not configured.
func TestNewGeminiClientWithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	client, err := NewGeminiClient()
	if err != nil {
		t.Fatalf("NewGeminiClient returned error: %v", err)
	}
	if client != nil {
		t.Error("expected nil client without GEMINI_API_KEY")
	}
}
