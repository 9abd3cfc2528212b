package importer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Account is an account as reported by the aggregation provider.
type Account struct {
	ExternalID string
	Name       string
}

// Category is a category as reported by the aggregation provider.
type Category struct {
	ExternalID string
	Name       string
}

// Transaction is a transaction as reported by the aggregation provider.
// Amounts are in native currency units, not miliunits.
type Transaction struct {
	ExternalAccountID  string
	ExternalCategoryID string
	Amount             decimal.Decimal
	Payee              string
	Description        string
	Date               time.Time
}

// Provider is the banking aggregation API. Implementations exchange the
// client's public token for an access token and list the linked accounts,
// the provider's category taxonomy and the transaction feed.
type Provider interface {
	ExchangePublicToken(ctx context.Context, publicToken string) (string, error)
	Accounts(ctx context.Context, accessToken string) ([]Account, error)
	Categories(ctx context.Context, accessToken string) ([]Category, error)
	Transactions(ctx context.Context, accessToken string) ([]Transaction, error)
}
