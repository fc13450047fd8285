package services

import (
	"gorm.io/gorm"

	"fintrack/internal/dates"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/recurrence"
)

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, icon, color string, budget *int64) (*models.Category, error)
	GetCategories(page pagination.PageRequest, categoryType *models.CategoryType) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID, name, icon, color string, budget *int64) (*models.Category, error)
	DeleteCategory(categoryID string) error
	SeedDefaults() error
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(name string, amount int64, date dates.Date, categoryID string, isRecurring bool, frequency recurrence.Frequency, endDate *dates.Date, metadata *recurrence.Metadata) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	UpdateTransaction(transactionID, name string, amount *int64, date *dates.Date, categoryID string, updateRecurring bool) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
}

// DuePassResult summarizes a completed due-rule processing pass.
type DuePassResult struct {
	// Processed counts rules fully committed (transaction materialized and
	// cursor advanced or rule retired) before any failure.
	Processed int `json:"processed"`
}

// RecurringServicer defines the contract for recurring-rule business logic,
// including the due-pass processor.
type RecurringServicer interface {
	RunDuePass(today dates.Date) (*DuePassResult, error)
	GetRules(page pagination.PageRequest) (*pagination.PageResponse[models.RecurringRule], error)
	GetRuleByID(ruleID string) (*models.RecurringRule, error)
	UpdateRule(ruleID, name string, amount *int64, categoryID string, endDate *dates.Date) (*models.RecurringRule, error)
	DeleteRule(ruleID string) error
}

// RecurringRuleStore is the persistence boundary for recurring rules.
// LoadDue returns rules with plaintext names; Advance and Retire run
// inside the caller's database transaction.
type RecurringRuleStore interface {
	LoadDue(today dates.Date) ([]models.RecurringRule, error)
	Advance(tx *gorm.DB, ruleID string, next dates.Date) error
	Retire(tx *gorm.DB, ruleID string) error
}

// TransactionDraft is the shape of a transaction materialized from a due
// rule. Name is plaintext; the materializer owns encoding at rest.
type TransactionDraft struct {
	Name        string
	Amount      int64
	Date        dates.Date
	CategoryID  string
	Frequency   recurrence.Frequency
	RecurringID string
}

// TransactionMaterializer writes concrete transactions derived from due
// rules, inside the caller's database transaction.
type TransactionMaterializer interface {
	Create(tx *gorm.DB, draft TransactionDraft) error
}
