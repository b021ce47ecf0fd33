// Package service holds the business rules between the HTTP handlers and the
// repositories.
package service

import (
	"context"

	"bizrate/internal/models"
	"bizrate/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateRoleInput struct {
	ActorID  uint
	TargetID uint
	Role     models.Role
}

type DeleteUserInput struct {
	ActorID  uint
	TargetID uint
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateRole changes a user's role. Admins cannot change their own role, so
// the system cannot be left without one by accident.
func (s *UserService) UpdateRole(ctx context.Context, in UpdateRoleInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, models.NewValidationError("Unknown role")
	}
	if in.ActorID == in.TargetID {
		return nil, models.NewValidationError("You cannot change your own role")
	}

	user, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	user.Role = in.Role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an account. Self-deletion through the admin surface is
// rejected for the same reason self-demotion is.
func (s *UserService) DeleteUser(ctx context.Context, in DeleteUserInput) error {
	if in.ActorID == in.TargetID {
		return models.NewValidationError("You cannot delete your own account")
	}
	return s.userRepo.Delete(ctx, in.TargetID)
}
