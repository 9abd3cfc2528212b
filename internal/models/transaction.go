package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is a single booking on an account.
//
// Amount is stored in miliunits: the native currency amount multiplied by
// 1000. This avoids floating point rounding across the whole stack.
//
// A transaction has no owner field. Ownership is derived through the
// account, so every authorization check joins through accounts.
type Transaction struct {
	DefaultModel
	Amount     int64      `json:"amount" example:"-12990"`
	Payee      string     `json:"payee" example:"Grocery Store"`
	Notes      string     `json:"notes" example:"Weekly shopping"`
	Date       time.Time  `json:"date" example:"2025-04-02T00:00:00.000Z"`
	AccountID  uuid.UUID  `json:"accountId" gorm:"index"`
	Account    Account    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID *uuid.UUID `json:"categoryId"`
	Category   Category   `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return nil
}

// BeforeSave
//   - sets the timezone for the Date to UTC
//   - trims whitespace from string fields
//   - normalizes a pointer to the nil UUID to an actual nil
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Payee = strings.TrimSpace(t.Payee)
	t.Notes = strings.TrimSpace(t.Notes)

	if t.CategoryID != nil && *t.CategoryID == uuid.Nil {
		t.CategoryID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}
