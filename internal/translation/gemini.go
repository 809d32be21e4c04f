package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider translates text through a Gemini generative model.
type GeminiProvider struct {
	client     *genai.Client
	descriptor Descriptor
}

// NewGeminiProvider builds a generative adapter for one catalog entry.
func NewGeminiProvider(client *genai.Client, descriptor Descriptor) *GeminiProvider {
	return &GeminiProvider{
		client:     client,
		descriptor: descriptor,
	}
}

func (p *GeminiProvider) Name() string {
	if p == nil {
		return ""
	}
	return p.descriptor.ID
}

func (p *GeminiProvider) SupportedLanguages() []string {
	if p == nil {
		return nil
	}
	languages := make([]string, len(p.descriptor.Languages))
	copy(languages, p.descriptor.Languages)
	return languages
}

func (p *GeminiProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("gemini provider is not initialized")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	language := strings.TrimSpace(req.TargetLanguage)
	if language == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if !p.descriptor.SupportsLanguage(language) {
		return nil, unsupportedLanguage(p.descriptor.ID, language)
	}

	started := time.Now()
	resp, err := p.client.Models.GenerateContent(
		ctx,
		p.descriptor.ID,
		genai.Text(generativePrompt(text, language, req.Tone)),
		&genai.GenerateContentConfig{
			MaxOutputTokens: maxCompletionTokens,
		},
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &RequestFailedError{
				Provider: p.descriptor.ID,
				Status:   apiErr.Code,
				Body:     apiErr.Message,
			}
		}
		return nil, fmt.Errorf("send generate content request: %w", err)
	}

	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return nil, malformedResponse(p.descriptor.ID, "response missing text")
	}

	return &TranslateResponse{
		Text:           translated,
		TargetLanguage: language,
		ProviderName:   p.Name(),
		LatencyMs:      time.Since(started).Milliseconds(),
	}, nil
}

func generativePrompt(text, language, tone string) string {
	if trimmedTone := strings.TrimSpace(tone); trimmedTone != "" {
		return fmt.Sprintf(
			"Translate the text: %q from English to %s with a %s tone.",
			text,
			language,
			strings.ToLower(trimmedTone),
		)
	}
	return fmt.Sprintf("Translate the text: %q into %s", text, language)
}
