package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"google.golang.org/genai"
)

func geminiTestDescriptor() Descriptor {
	return Descriptor{
		ID:        "gemini-1.5-flash-002",
		Kind:      ProviderKindGenerative,
		Languages: []string{"Spanish", "French", "German"},
	}
}

func newGeminiTestClient(t *testing.T, handler http.HandlerFunc) (*genai.Client, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  "test-key",
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: server.URL,
		},
	})
	if err != nil {
		server.Close()
		t.Fatalf("create gemini client: %v", err)
	}
	return client, server.Close
}

type geminiGenerateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func TestGeminiProviderTranslate(t *testing.T) {
	t.Parallel()

	client, closeServer := newGeminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-1.5-flash-002") {
			t.Errorf("path %q should name the model", r.URL.Path)
		}
		if !strings.Contains(r.URL.Path, "generateContent") {
			t.Errorf("path %q should target generateContent", r.URL.Path)
		}

		var req geminiGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
			t.Fatal("request carries no prompt text")
		}
		prompt := req.Contents[0].Parts[0].Text
		if !strings.Contains(prompt, `"Hello"`) || !strings.Contains(prompt, "Spanish") {
			t.Errorf("prompt %q should carry the text and target language", prompt)
		}
		if req.GenerationConfig.MaxOutputTokens != maxCompletionTokens {
			t.Errorf("maxOutputTokens = %d, want %d", req.GenerationConfig.MaxOutputTokens, maxCompletionTokens)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Hola  "}]}}]}`))
	})
	defer closeServer()

	provider := NewGeminiProvider(client, geminiTestDescriptor())

	resp, err := provider.Translate(context.Background(), TranslateRequest{
		Text:           "Hello",
		TargetLanguage: "Spanish",
	})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if resp.Text != "Hola" {
		t.Errorf("Translate().Text = %q, want Hola", resp.Text)
	}
	if resp.ProviderName != "gemini-1.5-flash-002" {
		t.Errorf("Translate().ProviderName = %q, want gemini-1.5-flash-002", resp.ProviderName)
	}
}

func TestGeminiProviderTonePrompt(t *testing.T) {
	t.Parallel()

	client, closeServer := newGeminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req geminiGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		prompt := req.Contents[0].Parts[0].Text
		if !strings.Contains(prompt, "with a formal tone") {
			t.Errorf("prompt %q should carry the tone clause", prompt)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hola"}]}}]}`))
	})
	defer closeServer()

	provider := NewGeminiProvider(client, geminiTestDescriptor())

	if _, err := provider.Translate(context.Background(), TranslateRequest{
		Text:           "Hello",
		TargetLanguage: "Spanish",
		Tone:           "Formal",
	}); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
}

func TestGeminiProviderUnsupportedLanguageSkipsNetwork(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	client, closeServer := newGeminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})
	defer closeServer()

	provider := NewGeminiProvider(client, geminiTestDescriptor())

	_, err := provider.Translate(context.Background(), TranslateRequest{
		Text:           "Hello",
		TargetLanguage: "Klingon",
	})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("Translate() error = %v, want ErrUnsupportedLanguage", err)
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("server saw %d requests, want 0", got)
	}
}

func TestGeminiProviderSurfacesAPIError(t *testing.T) {
	t.Parallel()

	client, closeServer := newGeminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"rate limit exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})
	defer closeServer()

	provider := NewGeminiProvider(client, geminiTestDescriptor())

	_, err := provider.Translate(context.Background(), TranslateRequest{
		Text:           "Hello",
		TargetLanguage: "Spanish",
	})
	var reqErr *RequestFailedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Translate() error = %v, want *RequestFailedError", err)
	}
	if reqErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", reqErr.Status, http.StatusTooManyRequests)
	}
	if !strings.Contains(reqErr.Body, "rate limit exceeded") {
		t.Errorf("Body = %q should carry the upstream message", reqErr.Body)
	}
}

func TestGeminiProviderMalformedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "no candidates", body: `{"candidates":[]}`},
		{name: "blank text", body: `{"candidates":[{"content":{"role":"model","parts":[{"text":"   "}]}}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, closeServer := newGeminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			})
			defer closeServer()

			provider := NewGeminiProvider(client, geminiTestDescriptor())

			_, err := provider.Translate(context.Background(), TranslateRequest{
				Text:           "Hello",
				TargetLanguage: "Spanish",
			})
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("Translate() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestGeminiProviderRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	client, closeServer := newGeminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	defer closeServer()

	provider := NewGeminiProvider(client, geminiTestDescriptor())

	if _, err := provider.Translate(context.Background(), TranslateRequest{TargetLanguage: "Spanish"}); err == nil {
		t.Error("expected an error for empty text")
	}
	if _, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello"}); err == nil {
		t.Error("expected an error for an empty target language")
	}
}
