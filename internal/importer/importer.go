// Package importer orchestrates the initial sync with the banking
// aggregation provider and the teardown when a bank is disconnected.
package importer

import (
	"context"

	"github.com/findash/backend/internal/mirror"
	"github.com/findash/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result summarizes one import run.
type Result struct {
	Accounts     int `json:"accounts"`     // Accounts created
	Categories   int `json:"categories"`   // Categories created
	Transactions int `json:"transactions"` // Transactions created
	Skipped      int `json:"skipped"`      // Transactions dropped because their account could not be matched
}

// ToMiliunits converts a native currency amount to integer miliunits,
// rounding to the nearest unit.
func ToMiliunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
}

// Run links a bank and imports its data.
//
// Accounts and categories are bulk-inserted directly into the primary
// store, one round trip per entity; the mirror gap this leaves is closed by
// the next reconciliation sweep. Transactions go through the dual-write
// create one by one so each lands in both stores.
//
// A transaction whose account cannot be matched is dropped: without an
// account there is no owner to authorize it against. An unmatched category
// is not fatal; the transaction is imported uncategorized.
func Run(ctx context.Context, db *gorm.DB, syncer *mirror.Syncer, provider Provider, ownerID string, publicToken string) (Result, error) {
	var result Result

	accessToken, err := provider.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return result, err
	}

	bank := models.ConnectedBank{
		OwnerID:     ownerID,
		AccessToken: accessToken,
	}
	if err := syncer.CreateConnectedBank(ctx, &bank); err != nil {
		return result, err
	}

	remoteAccounts, err := provider.Accounts(ctx, accessToken)
	if err != nil {
		return result, err
	}

	remoteCategories, err := provider.Categories(ctx, accessToken)
	if err != nil {
		return result, err
	}

	remoteTransactions, err := provider.Transactions(ctx, accessToken)
	if err != nil {
		return result, err
	}

	accounts := make([]models.Account, 0, len(remoteAccounts))
	for _, remote := range remoteAccounts {
		externalID := remote.ExternalID
		accounts = append(accounts, models.Account{
			Name:       remote.Name,
			ExternalID: &externalID,
			OwnerID:    ownerID,
		})
	}

	if len(accounts) > 0 {
		if err := db.WithContext(ctx).Create(&accounts).Error; err != nil {
			return result, err
		}
	}
	result.Accounts = len(accounts)

	categories := make([]models.Category, 0, len(remoteCategories))
	for _, remote := range remoteCategories {
		externalID := remote.ExternalID
		categories = append(categories, models.Category{
			Name:       remote.Name,
			ExternalID: &externalID,
			OwnerID:    ownerID,
		})
	}

	if len(categories) > 0 {
		if err := db.WithContext(ctx).Create(&categories).Error; err != nil {
			return result, err
		}
	}
	result.Categories = len(categories)

	accountIDs := make(map[string]uuid.UUID, len(accounts))
	for _, account := range accounts {
		accountIDs[*account.ExternalID] = account.ID
	}

	categoryIDs := make(map[string]uuid.UUID, len(categories))
	for _, category := range categories {
		categoryIDs[*category.ExternalID] = category.ID
	}

	// Sequential on purpose: each create is a dual write and ordering per
	// record must hold. The lookup maps above are the only dependency on
	// the account and category inserts.
	for _, remote := range remoteTransactions {
		accountID, ok := accountIDs[remote.ExternalAccountID]
		if !ok {
			result.Skipped++
			continue
		}

		transaction := models.Transaction{
			Amount:    ToMiliunits(remote.Amount),
			Payee:     remote.Payee,
			Notes:     remote.Description,
			Date:      remote.Date,
			AccountID: accountID,
		}

		if remote.Payee == "" {
			transaction.Payee = remote.Description
		}

		if categoryID, ok := categoryIDs[remote.ExternalCategoryID]; ok {
			id := categoryID
			transaction.CategoryID = &id
		}

		if err := syncer.CreateTransaction(ctx, &transaction); err != nil {
			return result, err
		}
		result.Transactions++
	}

	log.Info().
		Str("owner", ownerID).
		Int("accounts", result.Accounts).
		Int("categories", result.Categories).
		Int("transactions", result.Transactions).
		Int("skipped", result.Skipped).
		Msg("bank import finished")

	return result, nil
}

// Disconnect removes the owner's bank connection and cascades to every
// account and category that was imported from the provider, identified by a
// set ExternalID. The cascade is a deliberate orchestrator concern so that
// a plain connected-bank delete never silently grows scope.
//
// All deletes run through the dual-write operations, so the mirror is
// cleaned up as well. Transactions on the deleted accounts are cascaded by
// the database; their mirror items become orphans until the next
// reconciliation sweep removes them.
func Disconnect(ctx context.Context, db *gorm.DB, syncer *mirror.Syncer, ownerID string) (models.ConnectedBank, error) {
	var bank models.ConnectedBank
	err := db.WithContext(ctx).First(&bank, "owner_id = ?", ownerID).Error
	if err != nil {
		return models.ConnectedBank{}, err
	}

	if _, err := syncer.DeleteConnectedBank(ctx, bank.ID); err != nil {
		return models.ConnectedBank{}, err
	}

	var accounts []models.Account
	err = db.WithContext(ctx).
		Where("owner_id = ? AND external_id IS NOT NULL", ownerID).
		Find(&accounts).Error
	if err != nil {
		return models.ConnectedBank{}, err
	}

	for _, account := range accounts {
		if _, err := syncer.DeleteAccount(ctx, account.ID); err != nil {
			return models.ConnectedBank{}, err
		}
	}

	var categories []models.Category
	err = db.WithContext(ctx).
		Where("owner_id = ? AND external_id IS NOT NULL", ownerID).
		Find(&categories).Error
	if err != nil {
		return models.ConnectedBank{}, err
	}

	for _, category := range categories {
		if _, err := syncer.DeleteCategory(ctx, category.ID); err != nil {
			return models.ConnectedBank{}, err
		}
	}

	log.Info().
		Str("owner", ownerID).
		Int("accounts", len(accounts)).
		Int("categories", len(categories)).
		Msg("bank disconnected")

	return bank, nil
}
