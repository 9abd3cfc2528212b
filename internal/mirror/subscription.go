package mirror

import (
	"context"

	"github.com/findash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSubscription inserts a subscription and schedules its mirror
// upsert.
func (s *Syncer) CreateSubscription(ctx context.Context, subscription *models.Subscription) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subscription).Error; err != nil {
			return err
		}

		return enqueue(tx, TableSubscriptions, subscription.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return err
	}

	s.poke()
	return nil
}

// UpdateSubscription applies a status update and re-mirrors the row.
func (s *Syncer) UpdateSubscription(ctx context.Context, id uuid.UUID, update models.Subscription) (models.Subscription, error) {
	var subscription models.Subscription

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subscription, "id = ?", id).Error; err != nil {
			return err
		}

		err := tx.Model(&subscription).Select("external_subscription_id", "status").Updates(update).Error
		if err != nil {
			return err
		}

		if err := tx.First(&subscription, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableSubscriptions, subscription.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return models.Subscription{}, err
	}

	s.poke()
	return subscription, nil
}

// DeleteSubscription removes a subscription and schedules the mirror
// delete.
func (s *Syncer) DeleteSubscription(ctx context.Context, id uuid.UUID) (models.Subscription, error) {
	var subscription models.Subscription

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subscription, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Subscription{}, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableSubscriptions, id.String(), models.MirrorOpDelete)
	})
	if err != nil {
		return models.Subscription{}, err
	}

	s.poke()
	return subscription, nil
}
