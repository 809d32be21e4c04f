package db

import (
	"context"
	"fmt"
	"time"
)

// DefaultHistoryLimit caps "most recent" history queries.
const DefaultHistoryLimit = 5

// TranslationRow is one persisted translation history row.
type TranslationRow struct {
	ID                int64     `json:"id"`
	OriginalMessage   string    `json:"original_message"`
	TranslatedMessage string    `json:"translated_message"`
	Language          string    `json:"language"`
	Model             string    `json:"model"`
	CreatedAt         time.Time `json:"created_at"`
}

// ComparisonRow is one persisted comparison history row.
type ComparisonRow struct {
	ID                int64     `json:"id"`
	OriginalMessage   string    `json:"original_message"`
	TranslatedMessage string    `json:"translated_message"`
	Language          string    `json:"language"`
	Model             string    `json:"model"`
	Score             int       `json:"score"`
	CreatedAt         time.Time `json:"created_at"`
}

// InsertTranslationParams controls translation history inserts.
type InsertTranslationParams struct {
	OriginalMessage   string
	TranslatedMessage string
	Language          string
	Model             string
}

// InsertComparisonParams controls comparison history inserts.
type InsertComparisonParams struct {
	OriginalMessage   string
	TranslatedMessage string
	Language          string
	Model             string
	Score             int
}

func (p *Pool) InsertTranslation(ctx context.Context, row InsertTranslationParams) (TranslationRow, error) {
	const q = `
INSERT INTO translations (
	original_message,
	translated_message,
	language,
	model
)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at
`

	inserted := TranslationRow{
		OriginalMessage:   row.OriginalMessage,
		TranslatedMessage: row.TranslatedMessage,
		Language:          row.Language,
		Model:             row.Model,
	}
	if err := p.QueryRow(
		ctx,
		q,
		row.OriginalMessage,
		row.TranslatedMessage,
		row.Language,
		row.Model,
	).Scan(&inserted.ID, &inserted.CreatedAt); err != nil {
		return TranslationRow{}, fmt.Errorf("insert translation: %w", err)
	}
	return inserted, nil
}

func (p *Pool) InsertComparison(ctx context.Context, row InsertComparisonParams) (ComparisonRow, error) {
	const q = `
INSERT INTO compare_translations (
	original_message,
	translated_message,
	language,
	model,
	score
)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at
`

	inserted := ComparisonRow{
		OriginalMessage:   row.OriginalMessage,
		TranslatedMessage: row.TranslatedMessage,
		Language:          row.Language,
		Model:             row.Model,
		Score:             row.Score,
	}
	if err := p.QueryRow(
		ctx,
		q,
		row.OriginalMessage,
		row.TranslatedMessage,
		row.Language,
		row.Model,
		row.Score,
	).Scan(&inserted.ID, &inserted.CreatedAt); err != nil {
		return ComparisonRow{}, fmt.Errorf("insert comparison: %w", err)
	}
	return inserted, nil
}

func (p *Pool) RecentTranslations(ctx context.Context, limit int) ([]TranslationRow, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	const q = `
SELECT
	t.id,
	t.original_message,
	t.translated_message,
	t.language,
	t.model,
	t.created_at
FROM translations t
ORDER BY t.created_at DESC, t.id DESC
LIMIT $1
`

	rows, err := p.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent translations: %w", err)
	}
	defer rows.Close()

	items := make([]TranslationRow, 0, limit)
	for rows.Next() {
		var row TranslationRow
		if err := rows.Scan(
			&row.ID,
			&row.OriginalMessage,
			&row.TranslatedMessage,
			&row.Language,
			&row.Model,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan translation row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translation rows: %w", err)
	}

	return items, nil
}

func (p *Pool) RecentComparisons(ctx context.Context, limit int) ([]ComparisonRow, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	const q = `
SELECT
	ct.id,
	ct.original_message,
	ct.translated_message,
	ct.language,
	ct.model,
	ct.score,
	ct.created_at
FROM compare_translations ct
ORDER BY ct.created_at DESC, ct.id DESC
LIMIT $1
`

	rows, err := p.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent comparisons: %w", err)
	}
	defer rows.Close()

	items := make([]ComparisonRow, 0, limit)
	for rows.Next() {
		var row ComparisonRow
		if err := rows.Scan(
			&row.ID,
			&row.OriginalMessage,
			&row.TranslatedMessage,
			&row.Language,
			&row.Model,
			&row.Score,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comparison row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comparison rows: %w", err)
	}

	return items, nil
}
