package db

import "time"

// Translation maps the translations history table.
type Translation struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OriginalMessage   string    `gorm:"column:original_message;type:text;not null"`
	TranslatedMessage string    `gorm:"column:translated_message;type:text;not null"`
	Language          string    `gorm:"column:language;type:text;not null"`
	Model             string    `gorm:"column:model;type:text;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Translation) TableName() string { return "translations" }

// CompareTranslation maps the compare_translations history table.
type CompareTranslation struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OriginalMessage   string    `gorm:"column:original_message;type:text;not null"`
	TranslatedMessage string    `gorm:"column:translated_message;type:text;not null"`
	Language          string    `gorm:"column:language;type:text;not null"`
	Model             string    `gorm:"column:model;type:text;not null"`
	Score             int       `gorm:"column:score;type:integer;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (CompareTranslation) TableName() string { return "compare_translations" }

func autoMigrateModels() []any {
	return []any{
		&Translation{},
		&CompareTranslation{},
	}
}
