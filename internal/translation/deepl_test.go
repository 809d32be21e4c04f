package translation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func deepLTestDescriptor() Descriptor {
	return Descriptor{
		ID:        "deepl",
		Kind:      ProviderKindTranslation,
		Languages: []string{"Spanish", "French"},
		LanguageCodes: map[string]string{
			"Spanish": "ES",
			"French":  "FR",
		},
	}
}

func TestDeepLProviderTranslate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostFormValue("auth_key"); got != "test-key" {
			t.Errorf("auth_key = %q, want test-key", got)
		}
		if got := r.PostFormValue("text"); got != "Hello" {
			t.Errorf("text = %q, want Hello", got)
		}
		if got := r.PostFormValue("source_lang"); got != "EN" {
			t.Errorf("source_lang = %q, want EN", got)
		}
		if got := r.PostFormValue("target_lang"); got != "ES" {
			t.Errorf("target_lang = %q, want ES", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[{"text":"Hola"}]}`))
	}))
	defer server.Close()

	provider := NewDeepLProvider(server.URL, "test-key", deepLTestDescriptor())

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
	if resp.ProviderName != "deepl" {
		t.Errorf("Translate().ProviderName = %q, want deepl", resp.ProviderName)
	}
}

func TestDeepLProviderUnsupportedLanguageSkipsNetwork(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	provider := NewDeepLProvider(server.URL, "test-key", deepLTestDescriptor())

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

func TestDeepLProviderSurfacesRequestFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"invalid auth key"}`))
	}))
	defer server.Close()

	provider := NewDeepLProvider(server.URL, "bad-key", deepLTestDescriptor())

	_, err := provider.Translate(context.Background(), TranslateRequest{
		Text:           "Hello",
		TargetLanguage: "French",
	})
	var reqErr *RequestFailedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Translate() error = %v, want *RequestFailedError", err)
	}
	if reqErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want %d", reqErr.Status, http.StatusForbidden)
	}
	if reqErr.Body == "" {
		t.Error("expected the response body to be captured")
	}
}

func TestDeepLProviderMalformedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "no translations", body: `{"translations":[]}`},
		{name: "empty translation", body: `{"translations":[{"text":"   "}]}`},
		{name: "garbled body", body: `<html>gateway error</html>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			provider := NewDeepLProvider(server.URL, "test-key", deepLTestDescriptor())

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

func TestDeepLProviderRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	provider := NewDeepLProvider("", "test-key", deepLTestDescriptor())

	if _, err := provider.Translate(context.Background(), TranslateRequest{TargetLanguage: "Spanish"}); err == nil {
		t.Error("expected an error for empty text")
	}
	if _, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello"}); err == nil {
		t.Error("expected an error for an empty target language")
	}
}
