package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatTemperature matches the single-translate flow default.
	DefaultChatTemperature float32 = 0.3
	// maxCompletionTokens caps provider output length.
	maxCompletionTokens = 100
)

// ChatProvider translates text through an OpenAI chat completion model.
type ChatProvider struct {
	client     *openai.Client
	descriptor Descriptor
}

// NewChatProvider builds a chat-completion adapter for one catalog entry.
func NewChatProvider(client *openai.Client, descriptor Descriptor) *ChatProvider {
	return &ChatProvider{
		client:     client,
		descriptor: descriptor,
	}
}

func (p *ChatProvider) Name() string {
	if p == nil {
		return ""
	}
	return p.descriptor.ID
}

func (p *ChatProvider) SupportedLanguages() []string {
	if p == nil {
		return nil
	}
	languages := make([]string, len(p.descriptor.Languages))
	copy(languages, p.descriptor.Languages)
	return languages
}

func (p *ChatProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("chat provider is not initialized")
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

	temperature := req.Temperature
	if temperature <= 0 {
		temperature = DefaultChatTemperature
	}

	started := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.descriptor.ID,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: chatSystemPrompt(language, req.Tone),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: temperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &RequestFailedError{
				Provider: p.descriptor.ID,
				Status:   apiErr.HTTPStatusCode,
				Body:     apiErr.Message,
			}
		}
		return nil, fmt.Errorf("send chat completion request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, malformedResponse(p.descriptor.ID, "response missing choices")
	}
	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
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

func chatSystemPrompt(language, tone string) string {
	prompt := fmt.Sprintf("Translate this sentence into %s.", language)
	if trimmedTone := strings.TrimSpace(tone); trimmedTone != "" {
		prompt += fmt.Sprintf(" Use a %s tone.", strings.ToLower(trimmedTone))
	}
	return prompt
}
