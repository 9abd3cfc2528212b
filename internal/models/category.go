package models

import (
	"strings"

	"gorm.io/gorm"
)

// Category classifies transactions. Like accounts, categories imported from
// the aggregation provider carry the provider's id in ExternalID.
type Category struct {
	DefaultModel
	Name       string  `json:"name" example:"Groceries"`
	ExternalID *string `json:"externalId" gorm:"index" example:"cat_19001"`
	OwnerID    string  `json:"-" gorm:"index"`
}

// BeforeSave trims whitespace from string fields.
func (c *Category) BeforeSave(_ *gorm.DB) (err error) {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}
