package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Prompt is a saved prompt template. Args is derived from Body on save.
type Prompt struct {
	ID        string                      `gorm:"type:text;primaryKey" json:"promptId"`
	UserID    string                      `gorm:"type:text;not null;index" json:"-"`
	Title     string                      `gorm:"type:text;not null" json:"title"`
	Body      string                      `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Args      datatypes.JSONSlice[string] `gorm:"column:args" json:"args"`
	CreatedAt time.Time                   `gorm:"not null;index" json:"createdAt"`
}

func (Prompt) TableName() string { return "prompt" }

// BatchRun records one completed batch stream.
type BatchRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string         `gorm:"type:text;not null;index" json:"-"`
	Template     string         `gorm:"type:text;not null" json:"template"`
	Provider     string         `gorm:"type:text;not null" json:"provider"`
	Model        string         `gorm:"type:text;not null" json:"model"`
	ItemCount    int            `gorm:"not null" json:"item_count"`
	FailureCount int            `gorm:"not null" json:"failure_count"`
	Completed    bool           `gorm:"not null" json:"completed"`
	Items        datatypes.JSON `json:"items"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt   time.Time      `gorm:"not null;index" json:"finished_at"`
}

func (BatchRun) TableName() string { return "batch_run" }
