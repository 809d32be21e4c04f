package translation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed providers.json
var providerCatalogJSON []byte

//go:embed provider_catalog.schema.json
var providerCatalogSchemaJSON string

// ProviderKind selects the outbound request shape for a provider.
type ProviderKind string

const (
	ProviderKindChat        ProviderKind = "chat"
	ProviderKindGenerative  ProviderKind = "generative"
	ProviderKindTranslation ProviderKind = "translation"
)

// Descriptor is static per-provider configuration: identity, request shape,
// and the supported target languages. The language lists are configuration,
// not logic; they come from the embedded catalog file.
type Descriptor struct {
	ID            string            `json:"id"`
	Kind          ProviderKind      `json:"kind"`
	Languages     []string          `json:"languages"`
	LanguageCodes map[string]string `json:"language_codes,omitempty"`
}

// SupportsLanguage reports whether language is in the descriptor's table.
func (d Descriptor) SupportsLanguage(language string) bool {
	needle := normalizeLanguageName(language)
	if needle == "" {
		return false
	}
	for _, candidate := range d.Languages {
		if normalizeLanguageName(candidate) == needle {
			return true
		}
	}
	return false
}

// LanguageCode resolves the provider-specific code for a human-readable
// language name. Only translation-kind providers carry a code table.
func (d Descriptor) LanguageCode(language string) (string, bool) {
	needle := normalizeLanguageName(language)
	for name, code := range d.LanguageCodes {
		if normalizeLanguageName(name) == needle {
			return code, true
		}
	}
	return "", false
}

// Catalog is the static provider support table loaded at startup.
type Catalog struct {
	providers map[string]Descriptor
	order     []string
}

type catalogFile struct {
	CatalogVersion string       `json:"catalog_version"`
	Providers      []Descriptor `json:"providers"`
}

var (
	catalogOnce    sync.Once
	loadedCatalog  *Catalog
	loadCatalogErr error
)

// LoadCatalog parses and validates the embedded provider catalog.
// The result is cached; repeated calls are cheap.
func LoadCatalog() (*Catalog, error) {
	catalogOnce.Do(func() {
		loadedCatalog, loadCatalogErr = parseCatalog(providerCatalogJSON)
	})
	return loadedCatalog, loadCatalogErr
}

func parseCatalog(raw []byte) (*Catalog, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode provider catalog JSON: %w", err)
	}

	schema, err := compileCatalogSchema()
	if err != nil {
		return nil, fmt.Errorf("load provider catalog schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("provider catalog schema validation failed: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("unmarshal provider catalog: %w", err)
	}

	catalog := &Catalog{
		providers: make(map[string]Descriptor, len(file.Providers)),
		order:     make([]string, 0, len(file.Providers)),
	}
	for _, descriptor := range file.Providers {
		id := normalizeProviderName(descriptor.ID)
		if id == "" {
			return nil, fmt.Errorf("provider catalog entry has an empty id")
		}
		if _, exists := catalog.providers[id]; exists {
			return nil, fmt.Errorf("provider catalog entry %q is duplicated", id)
		}
		if descriptor.Kind == ProviderKindTranslation && len(descriptor.LanguageCodes) == 0 {
			return nil, fmt.Errorf("provider catalog entry %q requires language_codes", id)
		}
		descriptor.ID = id
		catalog.providers[id] = descriptor
		catalog.order = append(catalog.order, id)
	}

	return catalog, nil
}

func compileCatalogSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("provider_catalog.schema.json", strings.NewReader(providerCatalogSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("provider_catalog.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Descriptor resolves one provider entry by id.
func (c *Catalog) Descriptor(providerID string) (Descriptor, bool) {
	if c == nil {
		return Descriptor{}, false
	}
	descriptor, ok := c.providers[normalizeProviderName(providerID)]
	return descriptor, ok
}

// Descriptors returns all entries in catalog order.
func (c *Catalog) Descriptors() []Descriptor {
	if c == nil {
		return nil
	}
	items := make([]Descriptor, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.providers[id])
	}
	return items
}

// SupportedLanguages returns the language table for one provider, sorted.
func (c *Catalog) SupportedLanguages(providerID string) []string {
	descriptor, ok := c.Descriptor(providerID)
	if !ok {
		return nil
	}
	languages := make([]string, len(descriptor.Languages))
	copy(languages, descriptor.Languages)
	sort.Strings(languages)
	return languages
}

// LanguageCode resolves a provider-specific language code, or false when the
// provider has no mapping for the language.
func (c *Catalog) LanguageCode(providerID, language string) (string, bool) {
	descriptor, ok := c.Descriptor(providerID)
	if !ok {
		return "", false
	}
	return descriptor.LanguageCode(language)
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func normalizeLanguageName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
