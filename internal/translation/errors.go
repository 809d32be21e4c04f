package translation

import (
	"errors"
	"fmt"
)

var (
	// ErrMessageRequired rejects empty input before any network or store activity.
	ErrMessageRequired = errors.New("message is required")
	// ErrUnsupportedLanguage marks a target language outside a provider's table.
	ErrUnsupportedLanguage = errors.New("unsupported target language")
	// ErrMalformedResponse marks a provider response missing expected fields.
	ErrMalformedResponse = errors.New("provider response is malformed")
)

// RequestFailedError carries the provider's transport status and body for diagnosis.
type RequestFailedError struct {
	Provider string
	Status   int
	Body     string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("provider %s request failed with status %d: %s", e.Provider, e.Status, e.Body)
}

func unsupportedLanguage(provider, language string) error {
	return fmt.Errorf("provider %s does not support %q: %w", provider, language, ErrUnsupportedLanguage)
}

func malformedResponse(provider, detail string) error {
	return fmt.Errorf("provider %s: %s: %w", provider, detail, ErrMalformedResponse)
}
