package mirror

import (
	"context"

	"github.com/findash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateConnectedBank inserts a bank connection and schedules its mirror
// upsert. The unique owner index rejects a second connection per owner.
func (s *Syncer) CreateConnectedBank(ctx context.Context, bank *models.ConnectedBank) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bank).Error; err != nil {
			return err
		}

		return enqueue(tx, TableConnectedBanks, bank.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return err
	}

	s.poke()
	return nil
}

// UpdateConnectedBank replaces the access token and re-mirrors the row.
func (s *Syncer) UpdateConnectedBank(ctx context.Context, id uuid.UUID, update models.ConnectedBank) (models.ConnectedBank, error) {
	var bank models.ConnectedBank

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bank, "id = ?", id).Error; err != nil {
			return err
		}

		err := tx.Model(&bank).Select("access_token").Updates(update).Error
		if err != nil {
			return err
		}

		if err := tx.First(&bank, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableConnectedBanks, bank.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return models.ConnectedBank{}, err
	}

	s.poke()
	return bank, nil
}

// DeleteConnectedBank removes a bank connection and schedules the mirror
// delete. Cascading cleanup of imported accounts and categories is owned by
// the importer, not by this store operation.
func (s *Syncer) DeleteConnectedBank(ctx context.Context, id uuid.UUID) (models.ConnectedBank, error) {
	var bank models.ConnectedBank

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bank, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.ConnectedBank{}, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableConnectedBanks, id.String(), models.MirrorOpDelete)
	})
	if err != nil {
		return models.ConnectedBank{}, err
	}

	s.poke()
	return bank, nil
}
