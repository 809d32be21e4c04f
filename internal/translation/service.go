package translation

import "context"

// Provider translates free-form text into a target language.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
	SupportedLanguages() []string
}

// TranslateRequest describes one translation request.
type TranslateRequest struct {
	Text           string
	TargetLanguage string // human-readable name (for example: "Spanish")
	Tone           string // optional register hint (for example: "mild", "formal")
	Temperature    float32
}

// TranslateResponse contains translated text and provider metadata.
type TranslateResponse struct {
	Text           string
	TargetLanguage string
	ProviderName   string
	LatencyMs      int64
}
