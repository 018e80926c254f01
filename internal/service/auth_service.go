package service

import (
	"errors"

	"go-stock-api/internal/apperr"
	"go-stock-api/internal/model"
	"go-stock-api/internal/repository"
	"go-stock-api/pkg/jwt"
	"go-stock-api/pkg/validator"

	"gorm.io/gorm"
)

// invalidCredentialsMsg is deliberately the same for an unknown username and
// a wrong password.
const invalidCredentialsMsg = "invalid username or password"

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Register(req *RegisterRequest) (*model.UserResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type RegisterRequest struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required,min=4"`
	Role     model.Role `json:"role" validate:"required,oneof=admin user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication(invalidCredentialsMsg)
		}
		return nil, apperr.From(err)
	}

	if !user.CheckPassword(password) {
		return nil, apperr.Authentication(invalidCredentialsMsg)
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, apperr.Infrastructure(err, "failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) Register(req *RegisterRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}

	existing, err := s.userRepo.FindByUsername(req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.From(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("username '%s' already exists", req.Username)
	}

	user := &model.User{
		Username: req.Username,
		Role:     req.Role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Infrastructure(err, "failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.From(err)
	}

	resp := user.ToResponse()
	return &resp, nil
}
