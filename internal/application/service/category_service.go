package service

import (
	"context"
	"errors"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/utils"
	"github.com/google/uuid"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	medicineRepo repository.MedicineRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository, medicineRepo repository.MedicineRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, medicineRepo: medicineRepo}
}

// CategoryInput represents the create and update category input
type CategoryInput struct {
	Name        string
	Description string
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	slug := utils.Slugify(input.Name)
	if slug == "" {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "is required"})
	}

	// Check if slug already exists
	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category with this name already exists")
	}

	category := &entity.Category{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Category with this name already exists")
		}
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists categories with their medicine counts
func (s *CategoryService) ListCategories(ctx context.Context, search string) ([]entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []entity.Category{}
	}
	return categories, nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	slug := utils.Slugify(input.Name)
	if slug == "" {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "is required"})
	}
	if slug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
			return nil, apperror.NewConflictError("Category with this name already exists")
		}
	}

	category.Name = input.Name
	category.Slug = slug
	category.Description = input.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that no medicine uses
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	inUse, err := s.medicineRepo.Count(ctx, &repository.MedicineFilterParams{CategoryID: &id})
	if err != nil {
		return err
	}
	if inUse > 0 {
		return apperror.NewConflictError("Category is assigned to medicines")
	}

	return s.categoryRepo.Delete(ctx, id)
}
