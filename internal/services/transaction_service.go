package services

import (
	"errors"

	"gorm.io/gorm"

	"fintrack/internal/crypto"
	"fintrack/internal/dates"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/recurrence"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	cipher          crypto.NameCipher
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, cipher crypto.NameCipher, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		cipher:          cipher,
		categoryService: categoryService,
	}
}

// CreateTransaction creates a transaction. When isRecurring is set with a
// valid frequency, a recurring rule is created alongside it in the same
// database transaction; the rule's cursor starts at the first occurrence
// after the transaction's own date. If that first occurrence already falls
// past endDate the transaction is created without a rule.
func (s *transactionService) CreateTransaction(
	name string,
	amount int64,
	date dates.Date,
	categoryID string,
	isRecurring bool,
	frequency recurrence.Frequency,
	endDate *dates.Date,
	metadata *recurrence.Metadata,
) (*models.Transaction, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction name is required")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction date is required")
	}

	// Ensure the category exists
	if _, err := s.categoryService.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}

	recurring := isRecurring && frequency != ""
	if recurring {
		if !frequency.Valid() {
			return nil, apperrors.ErrInvalidFrequency
		}
		if frequency == recurrence.FrequencyCustom && metadata.Empty() {
			return nil, apperrors.ErrInvalidRuleMetadata
		}
	}

	encryptedName, err := s.cipher.Encrypt(name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction := &models.Transaction{
		Name:        encryptedName,
		Amount:      amount,
		Date:        date,
		CategoryID:  categoryID,
		IsRecurring: recurring,
	}
	if recurring {
		transaction.Frequency = frequency
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if recurring {
			if next, ok := recurrence.Next(date, frequency, metadata, endDate); ok {
				rule := &models.RecurringRule{
					Name:       encryptedName,
					Amount:     amount,
					CategoryID: categoryID,
					Frequency:  frequency,
					NextDate:   next,
					EndDate:    endDate,
					Metadata:   metadata,
				}
				if err := tx.Create(rule).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				transaction.RecurringID = &rule.ID
			}
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	transaction.Name = name
	return transaction, nil
}

// GetTransactions retrieves a paginated list of transactions with their
// categories, newest first, names decrypted.
func (s *transactionService) GetTransactions(page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Transaction{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Model(&models.Transaction{}).
		Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range transactions {
		transactions[i].Name = s.cipher.Decrypt(transactions[i].Name)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	transaction.Name = s.cipher.Decrypt(transaction.Name)
	return &transaction, nil
}

// UpdateTransaction updates a transaction's fields. With updateRecurring
// set, name/amount/category changes cascade to the originating rule; the
// rule's scheduling cursor is never touched.
func (s *transactionService) UpdateTransaction(
	transactionID string,
	name string,
	amount *int64,
	date *dates.Date,
	categoryID string,
	updateRecurring bool,
) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	if categoryID != "" {
		if _, err := s.categoryService.GetCategoryByID(categoryID); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	ruleUpdates := make(map[string]interface{})
	if name != "" {
		encrypted, err := s.cipher.Encrypt(name)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["name"] = encrypted
		ruleUpdates["name"] = encrypted
		transaction.Name = name
	}
	if amount != nil {
		updates["amount"] = *amount
		ruleUpdates["amount"] = *amount
	}
	if date != nil {
		updates["date"] = *date
	}
	if categoryID != "" {
		updates["category_id"] = categoryID
		ruleUpdates["category_id"] = categoryID
	}

	if len(updates) == 0 {
		return transaction, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).Where("id = ?", transactionID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if updateRecurring && transaction.RecurringID != nil && len(ruleUpdates) > 0 {
			if err := tx.Model(&models.RecurringRule{}).
				Where("id = ?", *transaction.RecurringID).
				Updates(ruleUpdates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(transactionID)
}

// DeleteTransaction deletes a transaction. The originating rule, if any,
// stays alive; deleting a rule is an explicit operation on the rule itself.
func (s *transactionService) DeleteTransaction(transactionID string) error {
	transaction, err := s.GetTransactionByID(transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
