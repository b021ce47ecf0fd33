package service

import (
	"context"

	"bizrate/internal/models"
	"bizrate/internal/repository"
)

// CatalogService manages the category and business catalog. Any authenticated
// user may add entries; editing and deleting them is admin-only, enforced at
// the routing layer.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	businessRepo repository.BusinessRepository
	userRepo     repository.UserRepository
}

type CreateCategoryInput struct {
	Name        string
	Description string
	Icon        string
}

type UpdateCategoryInput struct {
	CategoryID  uint
	Name        *string
	Description *string
	Icon        *string
}

type CreateBusinessInput struct {
	Name         string
	Description  string
	Location     string
	Logo         string
	Phone        string
	Website      string
	CategoryID   uint
	SupervisorID *uint
}

type UpdateBusinessInput struct {
	BusinessID   uint
	Name         *string
	Description  *string
	Location     *string
	Logo         *string
	Phone        *string
	Website      *string
	CategoryID   *uint
	SupervisorID *uint
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		businessRepo: businessRepo,
		userRepo:     userRepo,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	category := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, limit, offset int) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, limit, offset)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Icon != nil {
		category.Icon = *in.Icon
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *CatalogService) CreateBusiness(ctx context.Context, in CreateBusinessInput) (*models.Business, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if in.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, *in.SupervisorID); err != nil {
			return nil, err
		}
	}

	business := &models.Business{
		Name:         in.Name,
		Description:  in.Description,
		Location:     in.Location,
		Logo:         in.Logo,
		Phone:        in.Phone,
		Website:      in.Website,
		CategoryID:   in.CategoryID,
		SupervisorID: in.SupervisorID,
	}
	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, err
	}
	return s.businessRepo.GetByID(ctx, business.ID)
}

func (s *CatalogService) GetBusiness(ctx context.Context, id uint) (*models.Business, error) {
	return s.businessRepo.GetByID(ctx, id)
}

func (s *CatalogService) ListBusinesses(ctx context.Context, filter repository.BusinessFilter) ([]*models.Business, error) {
	return s.businessRepo.List(ctx, filter)
}

func (s *CatalogService) UpdateBusiness(ctx context.Context, in UpdateBusinessInput) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		business.Name = *in.Name
	}
	if in.Description != nil {
		business.Description = *in.Description
	}
	if in.Location != nil {
		business.Location = *in.Location
	}
	if in.Logo != nil {
		business.Logo = *in.Logo
	}
	if in.Phone != nil {
		business.Phone = *in.Phone
	}
	if in.Website != nil {
		business.Website = *in.Website
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		business.CategoryID = *in.CategoryID
	}
	if in.SupervisorID != nil {
		// Zero clears the assignment, anything else must name a supervisor.
		if *in.SupervisorID == 0 {
			business.SupervisorID = nil
		} else {
			if err := s.checkSupervisor(ctx, *in.SupervisorID); err != nil {
				return nil, err
			}
			business.SupervisorID = in.SupervisorID
		}
	}

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}
	return s.businessRepo.GetByID(ctx, business.ID)
}

func (s *CatalogService) DeleteBusiness(ctx context.Context, id uint) error {
	if _, err := s.businessRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.businessRepo.Delete(ctx, id)
}

func (s *CatalogService) checkSupervisor(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != models.RoleSupervisor {
		return models.NewValidationError("Assigned user is not a supervisor")
	}
	return nil
}
