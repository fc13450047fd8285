package models

import (
	"fintrack/internal/dates"
	"fintrack/internal/recurrence"
)

// Transaction represents a dated financial entry. Amount is in cents,
// signed: negative amounts are expenses, positive amounts income.
type Transaction struct {
	Base
	// Name is stored encrypted at rest; services decrypt before returning
	// transactions to clients.
	Name       string     `gorm:"not null" json:"name"`
	Amount     int64      `gorm:"type:bigint;not null" json:"amount"`
	Date       dates.Date `gorm:"not null;index" json:"date"`
	CategoryID string     `gorm:"type:uuid;not null" json:"category_id"`

	IsRecurring bool                 `gorm:"not null;default:false" json:"is_recurring"`
	Frequency   recurrence.Frequency `json:"frequency,omitempty"`
	// RecurringID is a weak back-reference to the rule that generated this
	// transaction; nil for one-off transactions.
	RecurringID *string `gorm:"type:uuid;index" json:"recurring_id,omitempty"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
