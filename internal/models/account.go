package models

import (
	"strings"

	"gorm.io/gorm"
)

// Account represents a bank account transactions belong to.
//
// ExternalID is the identifier the banking aggregation provider assigned to
// the account. It is nil for manually created accounts.
type Account struct {
	DefaultModel
	Name       string  `json:"name" example:"Checking"`
	ExternalID *string `json:"externalId" gorm:"index" example:"acc_8Xk2p"`
	OwnerID    string  `json:"-" gorm:"index"`
}

// BeforeSave trims whitespace from string fields.
func (a *Account) BeforeSave(_ *gorm.DB) (err error) {
	a.Name = strings.TrimSpace(a.Name)
	return nil
}
