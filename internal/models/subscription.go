package models

// SubscriptionStatusActive is the status value that grants entitlement.
const SubscriptionStatusActive = "active"

// Subscription records the owner's entitlement as reported by the payment
// provider. Status is free text from the provider, e.g. "active" or
// "cancelled".
type Subscription struct {
	DefaultModel
	OwnerID                string `json:"-" gorm:"uniqueIndex"`
	ExternalSubscriptionID string `json:"externalSubscriptionId" example:"sub_1OxYzA"`
	Status                 string `json:"status" example:"active"`
}

// Active reports whether the subscription grants access to paid features.
func (s Subscription) Active() bool {
	return s.Status == SubscriptionStatusActive
}
