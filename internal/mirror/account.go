package mirror

import (
	"context"

	"github.com/findash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAccount inserts an account and schedules its mirror upsert.
func (s *Syncer) CreateAccount(ctx context.Context, account *models.Account) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		return enqueue(tx, TableAccounts, account.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return err
	}

	s.poke()
	return nil
}

// UpdateAccount applies a partial update and re-mirrors the entire
// resulting row, so the mirror item is never partially stale.
func (s *Syncer) UpdateAccount(ctx context.Context, id uuid.UUID, update models.Account) (models.Account, error) {
	var account models.Account

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, "id = ?", id).Error; err != nil {
			return err
		}

		err := tx.Model(&account).Select("name").Updates(update).Error
		if err != nil {
			return err
		}

		if err := tx.First(&account, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableAccounts, account.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return models.Account{}, err
	}

	s.poke()
	return account, nil
}

// DeleteAccount removes an account and schedules the mirror delete. The
// deleted row is returned; a missing row is an error, also on repeat
// deletes.
func (s *Syncer) DeleteAccount(ctx context.Context, id uuid.UUID) (models.Account, error) {
	var account models.Account

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Account{}, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableAccounts, id.String(), models.MirrorOpDelete)
	})
	if err != nil {
		return models.Account{}, err
	}

	s.poke()
	return account, nil
}
