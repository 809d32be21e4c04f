package translation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"horse.fit/lingo/internal/db"
)

// HistoryStore persists translation outcomes and serves the recent history.
// *db.Pool satisfies it.
type HistoryStore interface {
	InsertTranslation(ctx context.Context, row db.InsertTranslationParams) (db.TranslationRow, error)
	InsertComparison(ctx context.Context, row db.InsertComparisonParams) (db.ComparisonRow, error)
	RecentTranslations(ctx context.Context, limit int) ([]db.TranslationRow, error)
	RecentComparisons(ctx context.Context, limit int) ([]db.ComparisonRow, error)
}

// ComparisonResult is one provider's contribution to a comparison run.
type ComparisonResult struct {
	Translation string `json:"translation"`
	Score       int    `json:"score"`
}

// Manager orchestrates translation calls and the history store. Persistence
// of single translations is best effort: a store failure is logged and never
// surfaced to the caller.
type Manager struct {
	store    HistoryStore
	registry *Registry
	logger   zerolog.Logger
	scoreFn  func() int
}

func NewManager(pool *db.Pool, registry *Registry, logger zerolog.Logger) *Manager {
	return NewManagerWithStore(pool, registry, logger)
}

// NewManagerWithStore wires an explicit store implementation.
func NewManagerWithStore(store HistoryStore, registry *Registry, logger zerolog.Logger) *Manager {
	return &Manager{
		store:    store,
		registry: registry,
		logger:   logger,
		scoreFn:  randomScore,
	}
}

// randomScore assigns a placeholder quality score in [1, 10]. A real quality
// model would replace this; the contract is only that the value is bounded.
func randomScore() int {
	return rand.IntN(10) + 1
}

// Translate runs one translation through the named provider (or the default
// when providerName is empty) and records the outcome in history.
func (m *Manager) Translate(ctx context.Context, message, language, tone, providerName string) (*TranslateResponse, error) {
	if m == nil {
		return nil, fmt.Errorf("translation manager is not initialized")
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}

	provider, err := m.registry.Provider(providerName)
	if err != nil {
		return nil, err
	}

	resp, err := provider.Translate(ctx, TranslateRequest{
		Text:           message,
		TargetLanguage: language,
		Tone:           tone,
	})
	if err != nil {
		return nil, fmt.Errorf("translate via %s: %w", provider.Name(), err)
	}

	if m.store != nil {
		if _, err := m.store.InsertTranslation(ctx, db.InsertTranslationParams{
			OriginalMessage:   message,
			TranslatedMessage: resp.Text,
			Language:          resp.TargetLanguage,
			Model:             resp.ProviderName,
		}); err != nil {
			m.logger.Error().
				Err(err).
				Str("provider", resp.ProviderName).
				Msg("failed to record translation history")
		}
	}

	return resp, nil
}

// Compare fans the same message out to every named provider concurrently and
// returns the results keyed by provider name. Providers that fail are left
// out of the map; the run only errors when every provider fails.
func (m *Manager) Compare(ctx context.Context, message, language, tone string, providerNames []string) (map[string]ComparisonResult, error) {
	if m == nil {
		return nil, fmt.Errorf("translation manager is not initialized")
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}

	results := make(map[string]ComparisonResult, len(providerNames))
	if len(providerNames) == 0 {
		return results, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	for _, name := range providerNames {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			result, resolvedName, err := m.compareOne(ctx, message, language, tone, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.logger.Warn().
					Err(err).
					Str("provider", resolvedName).
					Msg("provider dropped from comparison")
				failures = append(failures, fmt.Errorf("%s: %w", resolvedName, err))
				return
			}
			results[resolvedName] = result
		}(name)
	}
	wg.Wait()

	if len(results) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all providers failed: %w", errors.Join(failures...))
	}
	return results, nil
}

// compareOne translates, scores, and persists one provider's attempt. The
// row is written before the result is published so a comparison entry never
// appears in a response without its history record having been attempted.
func (m *Manager) compareOne(ctx context.Context, message, language, tone, providerName string) (ComparisonResult, string, error) {
	resolvedName := normalizeProviderName(providerName)

	provider, err := m.registry.Provider(providerName)
	if err != nil {
		return ComparisonResult{}, resolvedName, err
	}
	resolvedName = provider.Name()

	resp, err := provider.Translate(ctx, TranslateRequest{
		Text:           message,
		TargetLanguage: language,
		Tone:           tone,
	})
	if err != nil {
		return ComparisonResult{}, resolvedName, err
	}

	result := ComparisonResult{
		Translation: resp.Text,
		Score:       m.scoreFn(),
	}

	if m.store != nil {
		if _, err := m.store.InsertComparison(ctx, db.InsertComparisonParams{
			OriginalMessage:   message,
			TranslatedMessage: result.Translation,
			Language:          resp.TargetLanguage,
			Model:             resolvedName,
			Score:             result.Score,
		}); err != nil {
			m.logger.Error().
				Err(err).
				Str("provider", resolvedName).
				Msg("failed to record comparison history")
		}
	}

	return result, resolvedName, nil
}

// RecentTranslations returns the newest translation history rows.
func (m *Manager) RecentTranslations(ctx context.Context, limit int) ([]db.TranslationRow, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("history store is not initialized")
	}
	return m.store.RecentTranslations(ctx, limit)
}

// RecentComparisons returns the newest comparison history rows.
func (m *Manager) RecentComparisons(ctx context.Context, limit int) ([]db.ComparisonRow, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("history store is not initialized")
	}
	return m.store.RecentComparisons(ctx, limit)
}

// RecordTranslation writes one externally produced translation row.
func (m *Manager) RecordTranslation(ctx context.Context, row db.InsertTranslationParams) (db.TranslationRow, error) {
	if m == nil || m.store == nil {
		return db.TranslationRow{}, fmt.Errorf("history store is not initialized")
	}
	return m.store.InsertTranslation(ctx, row)
}

// RecordComparison writes one externally produced comparison row.
func (m *Manager) RecordComparison(ctx context.Context, row db.InsertComparisonParams) (db.ComparisonRow, error) {
	if m == nil || m.store == nil {
		return db.ComparisonRow{}, fmt.Errorf("history store is not initialized")
	}
	return m.store.InsertComparison(ctx, row)
}
