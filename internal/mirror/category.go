package mirror

import (
	"context"

	"github.com/findash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCategory inserts a category and schedules its mirror upsert.
func (s *Syncer) CreateCategory(ctx context.Context, category *models.Category) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(category).Error; err != nil {
			return err
		}

		return enqueue(tx, TableCategories, category.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return err
	}

	s.poke()
	return nil
}

// UpdateCategory applies a partial update and re-mirrors the entire
// resulting row.
func (s *Syncer) UpdateCategory(ctx context.Context, id uuid.UUID, update models.Category) (models.Category, error) {
	var category models.Category

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			return err
		}

		err := tx.Model(&category).Select("name").Updates(update).Error
		if err != nil {
			return err
		}

		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableCategories, category.ID.String(), models.MirrorOpUpsert)
	})
	if err != nil {
		return models.Category{}, err
	}

	s.poke()
	return category, nil
}

// DeleteCategory removes a category and schedules the mirror delete.
func (s *Syncer) DeleteCategory(ctx context.Context, id uuid.UUID) (models.Category, error) {
	var category models.Category

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
			return err
		}

		return enqueue(tx, TableCategories, id.String(), models.MirrorOpDelete)
	})
	if err != nil {
		return models.Category{}, err
	}

	s.poke()
	return category, nil
}
