package translation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"horse.fit/lingo/internal/config"
)

// DefaultProviderName is used when DEFAULT_PROVIDER is unset.
const DefaultProviderName = "gpt-3.5-turbo"

// Registry stores translation providers and resolves a default provider.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

func NewRegistry(defaultProvider string) *Registry {
	normalizedDefault := normalizeProviderName(defaultProvider)
	if normalizedDefault == "" {
		normalizedDefault = DefaultProviderName
	}

	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: normalizedDefault,
	}
}

// NewRegistryFromConfig builds a registry from the provider catalog, wiring
// one adapter per catalog entry whose API credentials are configured. Each
// adapter is constructed once here and injected wherever needed; no package
// holds a client singleton.
func NewRegistryFromConfig(ctx context.Context, cfg *config.Config, catalog *Catalog) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("provider catalog is nil")
	}

	registry := NewRegistry(cfg.DefaultProvider)

	var openaiClient *openai.Client
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	}

	var geminiClient *genai.Client
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		geminiClient = client
	}

	for _, descriptor := range catalog.Descriptors() {
		switch descriptor.Kind {
		case ProviderKindChat:
			if openaiClient == nil {
				continue
			}
			if err := registry.Register(NewChatProvider(openaiClient, descriptor)); err != nil {
				return nil, fmt.Errorf("register provider %s: %w", descriptor.ID, err)
			}
		case ProviderKindGenerative:
			if geminiClient == nil {
				continue
			}
			if err := registry.Register(NewGeminiProvider(geminiClient, descriptor)); err != nil {
				return nil, fmt.Errorf("register provider %s: %w", descriptor.ID, err)
			}
		case ProviderKindTranslation:
			if strings.TrimSpace(cfg.DeepLAPIKey) == "" {
				continue
			}
			if err := registry.Register(NewDeepLProvider(cfg.DeepLAPIURL, cfg.DeepLAPIKey, descriptor)); err != nil {
				return nil, fmt.Errorf("register provider %s: %w", descriptor.ID, err)
			}
		default:
			return nil, fmt.Errorf("provider %s has unknown kind %q", descriptor.ID, descriptor.Kind)
		}
	}

	if _, exists := registry.providers[registry.defaultProvider]; !exists {
		registry.defaultProvider = DefaultProviderName
	}
	if _, exists := registry.providers[registry.defaultProvider]; !exists {
		for _, name := range registry.ProviderNames() {
			registry.defaultProvider = name
			break
		}
	}

	return registry, nil
}

// Register adds one provider.
func (r *Registry) Register(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	r.providers[name] = provider
	return nil
}

// Provider resolves a provider by name. Empty names use the configured default provider.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no translation providers are registered")
	}

	resolvedName := normalizeProviderName(name)
	if resolvedName == "" {
		resolvedName = r.defaultProvider
	}
	provider, ok := r.providers[resolvedName]
	if ok {
		return provider, nil
	}

	return nil, fmt.Errorf("translation provider %q is not registered (available: %s)", resolvedName, strings.Join(r.ProviderNames(), ", "))
}

func (r *Registry) DefaultProvider() string {
	if r == nil {
		return ""
	}
	return r.defaultProvider
}

func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
