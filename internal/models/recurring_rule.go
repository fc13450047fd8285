package models

import (
	"fintrack/internal/dates"
	"fintrack/internal/recurrence"
)

// RecurringRule is a standing instruction to generate transactions on a
// schedule. NextDate is the rule's scheduling cursor: the date of the next
// due occurrence. The due-pass processor advances the cursor after each
// materialized transaction and deletes the rule once the next computed
// occurrence would fall past EndDate.
type RecurringRule struct {
	Base
	// Name is stored encrypted at rest, like Transaction.Name.
	Name       string               `gorm:"not null" json:"name"`
	Amount     int64                `gorm:"type:bigint;not null" json:"amount"`
	CategoryID string               `gorm:"type:uuid;not null" json:"category_id"`
	Frequency  recurrence.Frequency `gorm:"not null" json:"frequency"`
	NextDate   dates.Date           `gorm:"not null;index" json:"next_date"`
	EndDate    *dates.Date          `json:"end_date,omitempty"`
	// Metadata refines custom-frequency rules; nil for the fixed frequencies.
	Metadata *recurrence.Metadata `gorm:"serializer:json" json:"metadata,omitempty"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
