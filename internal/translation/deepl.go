package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultDeepLEndpoint points to the DeepL free-tier translate endpoint.
	DefaultDeepLEndpoint = "https://api-free.deepl.com/v2/translate"
	// deepLSourceLang is fixed: history inputs are always English.
	deepLSourceLang = "EN"
)

// DeepLProvider translates text through the DeepL form-encoded API.
type DeepLProvider struct {
	endpointURL string
	authKey     string
	descriptor  Descriptor
	client      *http.Client
}

// NewDeepLProvider builds a dedicated-translation adapter for one catalog entry.
func NewDeepLProvider(endpoint, authKey string, descriptor Descriptor) *DeepLProvider {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		trimmedEndpoint = DefaultDeepLEndpoint
	}
	return &DeepLProvider{
		endpointURL: trimmedEndpoint,
		authKey:     strings.TrimSpace(authKey),
		descriptor:  descriptor,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *DeepLProvider) Name() string {
	if p == nil {
		return ""
	}
	return p.descriptor.ID
}

func (p *DeepLProvider) SupportedLanguages() []string {
	if p == nil {
		return nil
	}
	languages := make([]string, len(p.descriptor.Languages))
	copy(languages, p.descriptor.Languages)
	return languages
}

func (p *DeepLProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("deepl provider is not initialized")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	language := strings.TrimSpace(req.TargetLanguage)
	if language == "" {
		return nil, fmt.Errorf("target language is required")
	}

	// No code mapping means no request: fail before touching the network.
	targetCode, ok := p.descriptor.LanguageCode(language)
	if !ok {
		return nil, unsupportedLanguage(p.descriptor.ID, language)
	}

	form := url.Values{}
	form.Set("auth_key", p.authKey)
	form.Set("text", text)
	form.Set("source_lang", deepLSourceLang)
	form.Set("target_lang", targetCode)

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestFailedError{
			Provider: p.descriptor.ID,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(respBody)),
		}
	}

	var parsed deepLResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, malformedResponse(p.descriptor.ID, "response is not valid JSON")
	}
	if len(parsed.Translations) == 0 {
		return nil, malformedResponse(p.descriptor.ID, "response missing translations")
	}

	translated := strings.TrimSpace(parsed.Translations[0].Text)
	if translated == "" {
		return nil, malformedResponse(p.descriptor.ID, "translation was empty")
	}

	return &TranslateResponse{
		Text:           translated,
		TargetLanguage: language,
		ProviderName:   p.Name(),
		LatencyMs:      time.Since(started).Milliseconds(),
	}, nil
}

type deepLResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}
