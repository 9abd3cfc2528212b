package mirror

import (
	"time"

	"github.com/findash/backend/internal/keyvalue"
	"github.com/findash/backend/internal/models"
)

// Secondary store table names. The mirror uses one table per entity, named
// after the primary store table it shadows.
const (
	TableAccounts       = "accounts"
	TableCategories     = "categories"
	TableTransactions   = "transactions"
	TableConnectedBanks = "connected_banks"
	TableSubscriptions  = "subscriptions"
)

// Dates travel as RFC 3339 UTC strings with millisecond precision.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate encodes a timestamp for a secondary store item.
func FormatDate(t time.Time) string {
	return t.In(time.UTC).Format(dateLayout)
}

// ParseDate is the inverse of FormatDate. Unparseable or absent values
// decode to the zero time instead of failing.
func ParseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}

	return t.In(time.UTC)
}

// AccountItem encodes an account for the secondary store.
func AccountItem(a models.Account) keyvalue.Item {
	item := keyvalue.Item{
		"id":      keyvalue.S(a.ID.String()),
		"name":    keyvalue.S(a.Name),
		"ownerId": keyvalue.S(a.OwnerID),
	}

	if a.ExternalID != nil && *a.ExternalID != "" {
		item["externalId"] = keyvalue.S(*a.ExternalID)
	} else {
		item["externalId"] = keyvalue.Null()
	}

	return item
}

// CategoryItem encodes a category for the secondary store.
func CategoryItem(c models.Category) keyvalue.Item {
	item := keyvalue.Item{
		"id":      keyvalue.S(c.ID.String()),
		"name":    keyvalue.S(c.Name),
		"ownerId": keyvalue.S(c.OwnerID),
	}

	if c.ExternalID != nil && *c.ExternalID != "" {
		item["externalId"] = keyvalue.S(*c.ExternalID)
	} else {
		item["externalId"] = keyvalue.Null()
	}

	return item
}

// ConnectedBankItem encodes a bank connection for the secondary store.
func ConnectedBankItem(b models.ConnectedBank) keyvalue.Item {
	return keyvalue.Item{
		"id":          keyvalue.S(b.ID.String()),
		"ownerId":     keyvalue.S(b.OwnerID),
		"accessToken": keyvalue.S(b.AccessToken),
	}
}

// SubscriptionItem encodes a subscription for the secondary store.
func SubscriptionItem(s models.Subscription) keyvalue.Item {
	return keyvalue.Item{
		"id":             keyvalue.S(s.ID.String()),
		"ownerId":        keyvalue.S(s.OwnerID),
		"subscriptionId": keyvalue.S(s.ExternalSubscriptionID),
		"status":         keyvalue.S(s.Status),
	}
}

// SecondaryTransaction is the transaction shape of the secondary store.
//
// Ids are plain strings here: the bulk upload endpoint accepts
// caller-supplied ids that need not be UUIDs. Empty Notes and CategoryID
// mean "absent" and encode as explicit null markers.
type SecondaryTransaction struct {
	ID         string
	Amount     int64
	Payee      string
	Notes      string
	Date       time.Time
	AccountID  string
	CategoryID string
}

// SecondaryTransactionItem encodes a transaction for the secondary store.
func SecondaryTransactionItem(t SecondaryTransaction) keyvalue.Item {
	item := keyvalue.Item{
		"id":        keyvalue.S(t.ID),
		"amount":    keyvalue.N(t.Amount),
		"payee":     keyvalue.S(t.Payee),
		"date":      keyvalue.S(FormatDate(t.Date)),
		"accountId": keyvalue.S(t.AccountID),
	}

	if t.Notes != "" {
		item["notes"] = keyvalue.S(t.Notes)
	} else {
		item["notes"] = keyvalue.Null()
	}

	if t.CategoryID != "" {
		item["categoryId"] = keyvalue.S(t.CategoryID)
	} else {
		item["categoryId"] = keyvalue.Null()
	}

	return item
}

// SecondaryTransactionFromItem decodes a transaction item. Absent
// attributes decode to zero values instead of failing.
func SecondaryTransactionFromItem(item keyvalue.Item) SecondaryTransaction {
	t := SecondaryTransaction{
		ID:     keyvalue.ID(item),
		Amount: keyvalue.IntAttr(item, "amount"),
	}

	t.Payee, _ = keyvalue.StringAttr(item, "payee")
	t.Notes, _ = keyvalue.StringAttr(item, "notes")
	t.AccountID, _ = keyvalue.StringAttr(item, "accountId")
	t.CategoryID, _ = keyvalue.StringAttr(item, "categoryId")

	if date, ok := keyvalue.StringAttr(item, "date"); ok {
		t.Date = ParseDate(date)
	}

	return t
}

// TransactionItem encodes a primary store transaction row.
func TransactionItem(t models.Transaction) keyvalue.Item {
	var categoryID string
	if t.CategoryID != nil {
		categoryID = t.CategoryID.String()
	}

	return SecondaryTransactionItem(SecondaryTransaction{
		ID:         t.ID.String(),
		Amount:     t.Amount,
		Payee:      t.Payee,
		Notes:      t.Notes,
		Date:       t.Date,
		AccountID:  t.AccountID.String(),
		CategoryID: categoryID,
	})
}
