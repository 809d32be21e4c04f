package translation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/lingo/internal/db"
)

type stubStore struct {
	mu             sync.Mutex
	translations   []db.InsertTranslationParams
	comparisons    []db.InsertComparisonParams
	insertErr      error
	recentRows     []db.TranslationRow
	recentCompares []db.ComparisonRow
	nextID         int64
}

func (s *stubStore) InsertTranslation(_ context.Context, row db.InsertTranslationParams) (db.TranslationRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return db.TranslationRow{}, s.insertErr
	}
	s.translations = append(s.translations, row)
	s.nextID++
	return db.TranslationRow{
		ID:                s.nextID,
		OriginalMessage:   row.OriginalMessage,
		TranslatedMessage: row.TranslatedMessage,
		Language:          row.Language,
		Model:             row.Model,
	}, nil
}

func (s *stubStore) InsertComparison(_ context.Context, row db.InsertComparisonParams) (db.ComparisonRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return db.ComparisonRow{}, s.insertErr
	}
	s.comparisons = append(s.comparisons, row)
	s.nextID++
	return db.ComparisonRow{
		ID:                s.nextID,
		OriginalMessage:   row.OriginalMessage,
		TranslatedMessage: row.TranslatedMessage,
		Language:          row.Language,
		Model:             row.Model,
		Score:             row.Score,
	}, nil
}

func (s *stubStore) RecentTranslations(_ context.Context, _ int) ([]db.TranslationRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recentRows, nil
}

func (s *stubStore) RecentComparisons(_ context.Context, _ int) ([]db.ComparisonRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recentCompares, nil
}

func (s *stubStore) translationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.translations)
}

func (s *stubStore) comparisonCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comparisons)
}

func newTestManager(t *testing.T, store HistoryStore, providers ...*stubProvider) *Manager {
	t.Helper()

	registry := NewRegistry("")
	for _, provider := range providers {
		if err := registry.Register(provider); err != nil {
			t.Fatalf("Register(%q) error = %v", provider.name, err)
		}
	}
	return NewManagerWithStore(store, registry, zerolog.Nop())
}

func TestManagerTranslatePersistsHistory(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	provider := &stubProvider{
		name: "gpt-4",
		response: &TranslateResponse{
			Text:           "Hola",
			TargetLanguage: "Spanish",
			ProviderName:   "gpt-4",
		},
	}
	manager := newTestManager(t, store, provider)

	resp, err := manager.Translate(context.Background(), "Hello", "Spanish", "", "gpt-4")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if resp.Text != "Hola" {
		t.Errorf("Translate().Text = %q, want Hola", resp.Text)
	}

	if store.translationCount() != 1 {
		t.Fatalf("stored %d translations, want 1", store.translationCount())
	}
	stored := store.translations[0]
	if stored.OriginalMessage != "Hello" || stored.TranslatedMessage != "Hola" {
		t.Errorf("stored row = %+v", stored)
	}
	if stored.Model != "gpt-4" || stored.Language != "Spanish" {
		t.Errorf("stored row = %+v", stored)
	}
}

func TestManagerTranslateEmptyMessage(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	provider := &stubProvider{name: "gpt-4"}
	manager := newTestManager(t, store, provider)

	_, err := manager.Translate(context.Background(), "   ", "Spanish", "", "gpt-4")
	if !errors.Is(err, ErrMessageRequired) {
		t.Fatalf("Translate() error = %v, want ErrMessageRequired", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider saw %d calls, want 0", provider.calls)
	}
	if store.translationCount() != 0 {
		t.Errorf("stored %d translations, want 0", store.translationCount())
	}
}

func TestManagerTranslateStoreFailureIsInvisible(t *testing.T) {
	t.Parallel()

	store := &stubStore{insertErr: errors.New("connection refused")}
	provider := &stubProvider{
		name: "gpt-4",
		response: &TranslateResponse{
			Text:           "Hola",
			TargetLanguage: "Spanish",
			ProviderName:   "gpt-4",
		},
	}
	manager := newTestManager(t, store, provider)

	resp, err := manager.Translate(context.Background(), "Hello", "Spanish", "", "gpt-4")
	if err != nil {
		t.Fatalf("Translate() error = %v, want nil despite the store failure", err)
	}
	if resp.Text != "Hola" {
		t.Errorf("Translate().Text = %q, want Hola", resp.Text)
	}
}

func TestManagerTranslateProviderFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	provider := &stubProvider{name: "gpt-4", err: errors.New("upstream timeout")}
	manager := newTestManager(t, store, provider)

	if _, err := manager.Translate(context.Background(), "Hello", "Spanish", "", "gpt-4"); err == nil {
		t.Fatal("expected the provider error to surface")
	}
	if store.translationCount() != 0 {
		t.Errorf("stored %d translations after a failed call, want 0", store.translationCount())
	}
}

func TestManagerCompareCollectsAllProviders(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	manager := newTestManager(t, store,
		&stubProvider{name: "gpt-4", response: &TranslateResponse{Text: "Hola", TargetLanguage: "Spanish", ProviderName: "gpt-4"}},
		&stubProvider{name: "deepl", response: &TranslateResponse{Text: "Hola!", TargetLanguage: "Spanish", ProviderName: "deepl"}},
	)
	manager.scoreFn = func() int { return 7 }

	results, err := manager.Compare(context.Background(), "Hello", "Spanish", "", []string{"gpt-4", "deepl"})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Compare() returned %d results, want 2", len(results))
	}

	got, ok := results["gpt-4"]
	if !ok {
		t.Fatal("expected a result for gpt-4")
	}
	if got.Translation != "Hola" || got.Score != 7 {
		t.Errorf("results[gpt-4] = %+v", got)
	}

	if store.comparisonCount() != 2 {
		t.Errorf("stored %d comparison rows, want 2", store.comparisonCount())
	}
	for _, row := range store.comparisons {
		if row.Score != 7 {
			t.Errorf("stored score = %d, want 7", row.Score)
		}
	}
}

func TestManagerComparePartialFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	manager := newTestManager(t, store,
		&stubProvider{name: "gpt-4", response: &TranslateResponse{Text: "Hola", TargetLanguage: "Spanish", ProviderName: "gpt-4"}},
		&stubProvider{name: "deepl", err: errors.New("upstream timeout")},
	)

	results, err := manager.Compare(context.Background(), "Hello", "Spanish", "", []string{"gpt-4", "deepl"})
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil for a partial failure", err)
	}
	if len(results) != 1 {
		t.Fatalf("Compare() returned %d results, want 1", len(results))
	}
	if _, ok := results["deepl"]; ok {
		t.Error("failed provider should be omitted from the results")
	}
	if store.comparisonCount() != 1 {
		t.Errorf("stored %d comparison rows, want 1", store.comparisonCount())
	}
}

func TestManagerCompareAllProvidersFail(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	manager := newTestManager(t, store,
		&stubProvider{name: "gpt-4", err: errors.New("upstream timeout")},
		&stubProvider{name: "deepl", err: errors.New("invalid auth key")},
	)

	_, err := manager.Compare(context.Background(), "Hello", "Spanish", "", []string{"gpt-4", "deepl"})
	if err == nil {
		t.Fatal("expected an error when every provider fails")
	}
	if !strings.Contains(err.Error(), "upstream timeout") || !strings.Contains(err.Error(), "invalid auth key") {
		t.Errorf("aggregate error should carry every failure, got %v", err)
	}
}

func TestManagerCompareEmptyProviderSet(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &stubStore{}, &stubProvider{name: "gpt-4"})

	results, err := manager.Compare(context.Background(), "Hello", "Spanish", "", nil)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Compare() returned %d results, want 0", len(results))
	}
}

func TestManagerCompareEmptyMessage(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &stubStore{}, &stubProvider{name: "gpt-4"})

	if _, err := manager.Compare(context.Background(), "", "Spanish", "", []string{"gpt-4"}); !errors.Is(err, ErrMessageRequired) {
		t.Fatalf("Compare() error = %v, want ErrMessageRequired", err)
	}
}

func TestRandomScoreBounds(t *testing.T) {
	t.Parallel()

	for range 1000 {
		score := randomScore()
		if score < 1 || score > 10 {
			t.Fatalf("randomScore() = %d, want a value in [1, 10]", score)
		}
	}
}
