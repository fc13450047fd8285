package services

import (
	"gorm.io/gorm"

	"fintrack/internal/crypto"
	"fintrack/internal/dates"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// gormRuleStore is the GORM-backed RecurringRuleStore. Names are decrypted
// on the way out so the processor only ever handles plaintext.
type gormRuleStore struct {
	db     *gorm.DB
	cipher crypto.NameCipher
}

// NewRecurringRuleStore creates a RecurringRuleStore over the given database.
func NewRecurringRuleStore(db *gorm.DB, cipher crypto.NameCipher) RecurringRuleStore {
	return &gormRuleStore{db: db, cipher: cipher}
}

// LoadDue returns every rule whose cursor is on or before today.
func (s *gormRuleStore) LoadDue(today dates.Date) ([]models.RecurringRule, error) {
	var rules []models.RecurringRule
	if err := s.db.Where("next_date <= ?", today).Order("next_date").Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range rules {
		rules[i].Name = s.cipher.Decrypt(rules[i].Name)
	}
	return rules, nil
}

// Advance moves a rule's cursor to its next occurrence.
func (s *gormRuleStore) Advance(tx *gorm.DB, ruleID string, next dates.Date) error {
	if err := tx.Model(&models.RecurringRule{}).Where("id = ?", ruleID).Update("next_date", next).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Retire deletes an exhausted rule.
func (s *gormRuleStore) Retire(tx *gorm.DB, ruleID string) error {
	if err := tx.Where("id = ?", ruleID).Delete(&models.RecurringRule{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// gormMaterializer writes transactions derived from due rules, encrypting
// the draft name before it reaches storage.
type gormMaterializer struct {
	cipher crypto.NameCipher
}

// NewTransactionMaterializer creates a TransactionMaterializer.
func NewTransactionMaterializer(cipher crypto.NameCipher) TransactionMaterializer {
	return &gormMaterializer{cipher: cipher}
}

// Create inserts the materialized transaction inside the caller's database
// transaction. A fresh UUIDv7 id is assigned by the model's create hook.
func (m *gormMaterializer) Create(tx *gorm.DB, draft TransactionDraft) error {
	name, err := m.cipher.Encrypt(draft.Name)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	recurringID := draft.RecurringID
	transaction := &models.Transaction{
		Name:        name,
		Amount:      draft.Amount,
		Date:        draft.Date,
		CategoryID:  draft.CategoryID,
		IsRecurring: true,
		Frequency:   draft.Frequency,
		RecurringID: &recurringID,
	}

	if err := tx.Create(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
