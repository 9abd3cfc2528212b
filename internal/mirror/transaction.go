package mirror

import (
	"context"

	"github.com/findash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transactionColumns are the editable columns. A transaction update always
// sets all of them, matching the PATCH body which carries the full record.
var transactionColumns = []string{"amount", "payee", "notes", "date", "account_id", "category_id"}

// CreateTransaction inserts a transaction and schedules its mirror upsert.
func (s *Syncer) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		return enqueue(tx, TableTransactions, transaction.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return err
	}

	s.poke()
	return nil
}

// UpdateTransaction applies an update and re-mirrors the entire resulting
// row.
func (s *Syncer) UpdateTransaction(ctx context.Context, id uuid.UUID, update models.Transaction) (models.Transaction, error) {
	var transaction models.Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, "id = ?", id).Error; err != nil {
			return err
		}

		err := tx.Model(&transaction).Select(transactionColumns).Updates(update).Error
		if err != nil {
			return err
		}

		if err := tx.First(&transaction, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableTransactions, transaction.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.poke()
	return transaction, nil
}

// DeleteTransaction removes a transaction and schedules the mirror delete.
func (s *Syncer) DeleteTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Transaction{}, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableTransactions, id.String(), models.MirrorOpDelete)
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.poke()
	return transaction, nil
}
