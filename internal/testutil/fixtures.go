package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"fintrack/internal/crypto"
	"fintrack/internal/dates"
	"fintrack/internal/models"
	"fintrack/internal/recurrence"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

var (
	cipherOnce sync.Once
	cipher     *crypto.AESCipher
	cipherErr  error
)

// Cipher returns a shared name cipher keyed with a fixed test secret.
// Shared because scrypt key derivation is deliberately slow.
func Cipher(t *testing.T) *crypto.AESCipher {
	t.Helper()

	cipherOnce.Do(func() {
		cipher, cipherErr = crypto.NewAESCipher("testutil-secret")
	})
	if cipherErr != nil {
		t.Fatalf("failed to create test cipher: %v", cipherErr)
	}
	return cipher
}

// Date parses a YYYY-MM-DD string, failing the test on bad input.
func Date(t *testing.T, s string) dates.Date {
	t.Helper()

	d, err := dates.Parse(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Test Category %d", nextID()),
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a one-off transaction with an encrypted name.
func CreateTestTransaction(t *testing.T, db *gorm.DB, categoryID string, amount int64, date dates.Date) *models.Transaction {
	t.Helper()

	name, err := Cipher(t).Encrypt(fmt.Sprintf("Test Transaction %d", nextID()))
	if err != nil {
		t.Fatalf("failed to encrypt fixture name: %v", err)
	}

	tx := &models.Transaction{
		Name:       name,
		Amount:     amount,
		Date:       date,
		CategoryID: categoryID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRule creates a recurring rule with an encrypted name and the
// given schedule.
func CreateTestRule(t *testing.T, db *gorm.DB, categoryID string, freq recurrence.Frequency, next dates.Date, end *dates.Date) *models.RecurringRule {
	t.Helper()

	name, err := Cipher(t).Encrypt(fmt.Sprintf("Test Rule %d", nextID()))
	if err != nil {
		t.Fatalf("failed to encrypt fixture name: %v", err)
	}

	rule := &models.RecurringRule{
		Name:       name,
		Amount:     -1500,
		CategoryID: categoryID,
		Frequency:  freq,
		NextDate:   next,
		EndDate:    end,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}

// CreateTestCustomRule creates a custom-frequency rule with metadata.
func CreateTestCustomRule(t *testing.T, db *gorm.DB, categoryID string, next dates.Date, meta *recurrence.Metadata) *models.RecurringRule {
	t.Helper()

	name, err := Cipher(t).Encrypt(fmt.Sprintf("Test Custom Rule %d", nextID()))
	if err != nil {
		t.Fatalf("failed to encrypt fixture name: %v", err)
	}

	rule := &models.RecurringRule{
		Name:       name,
		Amount:     -1500,
		CategoryID: categoryID,
		Frequency:  recurrence.FrequencyCustom,
		NextDate:   next,
		Metadata:   meta,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}
	return rule
}
