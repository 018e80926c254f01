package service

import (
	"errors"

	"go-stock-api/internal/apperr"
	"go-stock-api/internal/model"
	"go-stock-api/internal/repository"
	"go-stock-api/pkg/validator"

	"gorm.io/gorm"
)

type UserService interface {
	GetAllUsers() ([]model.UserResponse, error)
	UpdateUser(username string, req *UpdateUserRequest) (*model.UserResponse, error)
	DeleteUser(username string) error
}

// UpdateUserRequest is a partial update; nil fields keep stored values.
type UpdateUserRequest struct {
	Username *string     `json:"username"`
	Password *string     `json:"password" validate:"omitempty,min=4"`
	Role     *model.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.From(err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) UpdateUser(username string, req *UpdateUserRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user '%s' not found", username)
		}
		return nil, apperr.From(err)
	}

	// Last-admin protection: a role change away from admin must leave at
	// least one admin account.
	if req.Role != nil && user.Role == model.RoleAdmin && *req.Role != model.RoleAdmin {
		admins, err := s.userRepo.CountAdmins()
		if err != nil {
			return nil, apperr.From(err)
		}
		if admins <= 1 {
			return nil, apperr.InvariantViolation("cannot demote the last admin account")
		}
	}

	if req.Username != nil && *req.Username != "" && *req.Username != user.Username {
		if _, err := s.userRepo.FindByUsername(*req.Username); err == nil {
			return nil, apperr.Conflict("username '%s' already in use", *req.Username)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.From(err)
		}
		user.Username = *req.Username
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, apperr.Infrastructure(err, "failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.From(err)
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(username string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user '%s' not found", username)
		}
		return apperr.From(err)
	}

	if user.Role == model.RoleAdmin {
		admins, err := s.userRepo.CountAdmins()
		if err != nil {
			return apperr.From(err)
		}
		if admins <= 1 {
			return apperr.InvariantViolation("cannot delete the last admin account")
		}
	}

	if _, err := s.userRepo.DeleteByUsername(username); err != nil {
		return apperr.From(err)
	}
	return nil
}
