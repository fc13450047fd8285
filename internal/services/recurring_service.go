package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"fintrack/internal/crypto"
	"fintrack/internal/dates"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/recurrence"
)

// recurringService handles recurring-rule business logic and runs the
// due-pass processor.
type recurringService struct {
	db           *gorm.DB
	cipher       crypto.NameCipher
	rules        RecurringRuleStore
	materializer TransactionMaterializer

	// passMu serializes due passes. Overlapping triggers (page load plus
	// cron, say) would otherwise materialize the same occurrence twice.
	passMu sync.Mutex
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, cipher crypto.NameCipher, rules RecurringRuleStore, materializer TransactionMaterializer) RecurringServicer {
	return &recurringService{
		db:           db,
		cipher:       cipher,
		rules:        rules,
		materializer: materializer,
	}
}

// RunDuePass materializes a transaction for every rule whose next_date is
// on or before today, then advances the rule's cursor or retires it when
// no further occurrence exists.
//
// Each rule's materialize+advance is one database transaction, so a crash
// can never leave a generated transaction with an unmoved cursor. The
// first storage failure aborts the pass; rules committed earlier in the
// pass are kept (at-least-once semantics). A rule already advanced past
// today simply does not show up in the next LoadDue, which makes redundant
// triggers within the same day harmless.
func (s *recurringService) RunDuePass(today dates.Date) (*DuePassResult, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	due, err := s.rules.LoadDue(today)
	if err != nil {
		return nil, err
	}

	result := &DuePassResult{}
	for i := range due {
		rule := &due[i]

		err := s.db.Transaction(func(tx *gorm.DB) error {
			draft := TransactionDraft{
				Name:        rule.Name,
				Amount:      rule.Amount,
				Date:        rule.NextDate,
				CategoryID:  rule.CategoryID,
				Frequency:   rule.Frequency,
				RecurringID: rule.ID,
			}
			if err := s.materializer.Create(tx, draft); err != nil {
				return err
			}

			next, ok := recurrence.Next(rule.NextDate, rule.Frequency, rule.Metadata, rule.EndDate)
			if !ok {
				return s.rules.Retire(tx, rule.ID)
			}
			return s.rules.Advance(tx, rule.ID, next)
		})
		if err != nil {
			logger.Get().Errorw("due pass aborted",
				"rule_id", rule.ID,
				"processed", result.Processed,
				"error", err.Error(),
			)
			return result, err
		}

		result.Processed++
	}

	return result, nil
}

// GetRules retrieves a paginated list of recurring rules.
func (s *recurringService) GetRules(page pagination.PageRequest) (*pagination.PageResponse[models.RecurringRule], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.RecurringRule{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rules []models.RecurringRule
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("next_date").
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range rules {
		rules[i].Name = s.cipher.Decrypt(rules[i].Name)
	}

	result := pagination.NewPageResponse(rules, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRuleByID retrieves a recurring rule by ID.
func (s *recurringService) GetRuleByID(ruleID string) (*models.RecurringRule, error) {
	var rule models.RecurringRule
	if err := s.db.Where("id = ?", ruleID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringRuleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	rule.Name = s.cipher.Decrypt(rule.Name)
	return &rule, nil
}

// UpdateRule updates a rule's display fields. The scheduling cursor is
// owned by the processor and cannot be edited here.
func (s *recurringService) UpdateRule(
	ruleID string,
	name string,
	amount *int64,
	categoryID string,
	endDate *dates.Date,
) (*models.RecurringRule, error) {
	rule, err := s.GetRuleByID(ruleID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		encrypted, err := s.cipher.Encrypt(name)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["name"] = encrypted
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if categoryID != "" {
		updates["category_id"] = categoryID
	}
	if endDate != nil {
		updates["end_date"] = *endDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(rule).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	// Updates assigned the encrypted name onto the struct; hand back plaintext.
	if name != "" {
		rule.Name = name
	}
	return rule, nil
}

// DeleteRule deletes a rule. Transactions already generated from it keep
// their back-reference for historical records.
func (s *recurringService) DeleteRule(ruleID string) error {
	rule, err := s.GetRuleByID(ruleID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(rule).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
