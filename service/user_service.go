package service

import (
	"bank-cards-api/model"
	"bank-cards-api/repository"
	"errors"

	"github.com/google/uuid"
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID uuid.UUID, newRole model.Role) error {
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return errors.New("invalid role specified")
	}

	return s.userRepo.UpdateUserRole(userID, string(newRole))
}

// GetAllUsers lists every registered user. For admin use only.
func (s *UserService) GetAllUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}
