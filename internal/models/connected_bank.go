package models

// ConnectedBank stores the access token for an owner's link to the banking
// aggregation provider. One connection per owner.
//
// The access token is an opaque secret. It is never returned by the API.
type ConnectedBank struct {
	DefaultModel
	OwnerID     string `json:"-" gorm:"uniqueIndex"`
	AccessToken string `json:"-"`
}
