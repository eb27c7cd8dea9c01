package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category for a user
func (s *categoryService) CreateCategory(ctx context.Context, userID, name string, plaidID *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if err := s.ensureUniqueName(ctx, userID, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:  userID,
		Name:    name,
		PlaidID: plaidID,
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// ListCategories returns all categories of a user ordered by name.
func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	return findOwnedCategory(s.db.WithContext(ctx), userID, categoryID)
}

func findOwnedCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames a category
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if name == category.Name {
		return category, nil
	}

	if err := s.ensureUniqueName(ctx, userID, name, categoryID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(category).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// DeleteCategory deletes a category. Transactions and schedules that used it
// keep existing without a category.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCategories(tx, []string{category.ID})
	})
}

// BulkDeleteCategories deletes the listed categories the user owns and
// returns their ids.
func (s *categoryService) BulkDeleteCategories(ctx context.Context, userID string, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("user_id = ? AND id IN ?", userID, ids).
			Order("created_at ASC, id ASC").
			Pluck("id", &deleted).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(deleted) == 0 {
			return nil
		}
		return deleteCategories(tx, deleted)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// deleteCategories clears category references before removing the rows,
// matching ON DELETE SET NULL in the postgres schema.
func deleteCategories(tx *gorm.DB, ids []string) error {
	if err := tx.Model(&models.Transaction{}).
		Where("category_id IN ?", ids).
		Update("category_id", nil).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Model(&models.ScheduledTransaction{}).
		Where("category_id IN ?", ids).
		Update("category_id", nil).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Category{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *categoryService) ensureUniqueName(ctx context.Context, userID, name, excludeID string) error {
	q := s.db.WithContext(ctx).Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}
	return nil
}
