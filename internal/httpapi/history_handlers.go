package httpapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/lingo/internal/db"
)

const maxHistoryLimit = 100

type createTranslationRequest struct {
	OriginalMessage   string `json:"original_message"`
	TranslatedMessage string `json:"translated_message"`
	Language          string `json:"language"`
	Model             string `json:"model"`
}

type createComparisonRequest struct {
	OriginalMessage   string `json:"original_message"`
	TranslatedMessage string `json:"translated_message"`
	Language          string `json:"language"`
	Model             string `json:"model"`
	Score             *int   `json:"score"`
}

func (r createTranslationRequest) validate() map[string]string {
	fieldErrors := map[string]string{}
	requireField(fieldErrors, "original_message", r.OriginalMessage)
	requireField(fieldErrors, "translated_message", r.TranslatedMessage)
	requireField(fieldErrors, "language", r.Language)
	requireField(fieldErrors, "model", r.Model)
	return fieldErrors
}

func (r createComparisonRequest) validate() map[string]string {
	fieldErrors := map[string]string{}
	requireField(fieldErrors, "original_message", r.OriginalMessage)
	requireField(fieldErrors, "translated_message", r.TranslatedMessage)
	requireField(fieldErrors, "language", r.Language)
	requireField(fieldErrors, "model", r.Model)
	if r.Score == nil {
		fieldErrors["score"] = "is required"
	} else if *r.Score < 1 || *r.Score > 10 {
		fieldErrors["score"] = "must be between 1 and 10"
	}
	return fieldErrors
}

func requireField(fieldErrors map[string]string, name, value string) {
	if strings.TrimSpace(value) == "" {
		fieldErrors[name] = "is required"
	}
}

func (s *Server) handleCreateTranslation(c echo.Context) error {
	var req createTranslationRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	if fieldErrors := req.validate(); len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	row, err := s.store.InsertTranslation(c.Request().Context(), db.InsertTranslationParams{
		OriginalMessage:   strings.TrimSpace(req.OriginalMessage),
		TranslatedMessage: strings.TrimSpace(req.TranslatedMessage),
		Language:          strings.TrimSpace(req.Language),
		Model:             strings.TrimSpace(req.Model),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("insert translation failed")
		return internalError(c, "Failed to save translation")
	}

	return created(c, row)
}

func (s *Server) handleListTranslations(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), db.DefaultHistoryLimit, 1, maxHistoryLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	rows, err := s.store.RecentTranslations(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("query recent translations failed")
		return internalError(c, "Failed to load translations")
	}

	return success(c, map[string]any{
		"items": rows,
		"limit": limit,
	})
}

func (s *Server) handleCreateComparison(c echo.Context) error {
	var req createComparisonRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	if fieldErrors := req.validate(); len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	row, err := s.store.InsertComparison(c.Request().Context(), db.InsertComparisonParams{
		OriginalMessage:   strings.TrimSpace(req.OriginalMessage),
		TranslatedMessage: strings.TrimSpace(req.TranslatedMessage),
		Language:          strings.TrimSpace(req.Language),
		Model:             strings.TrimSpace(req.Model),
		Score:             *req.Score,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("insert comparison failed")
		return internalError(c, "Failed to save comparison")
	}

	return created(c, row)
}

func (s *Server) handleListComparisons(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), db.DefaultHistoryLimit, 1, maxHistoryLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	rows, err := s.store.RecentComparisons(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("query recent comparisons failed")
		return internalError(c, "Failed to load comparisons")
	}

	return success(c, map[string]any{
		"items": rows,
		"limit": limit,
	})
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
