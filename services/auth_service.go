package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grocery-store/models"
	"grocery-store/utils"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindAll(ctx context.Context, role string, page, limit int) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int, hashedPassword string) error
	Delete(ctx context.Context, id int) error
	ListContacts(ctx context.Context, roles []string, excludeID int) ([]models.Contact, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

type TokenGenerator interface {
	GenerateToken(userID int, email, role string) (string, error)
}

type AuthService struct {
	userRepo UserStore
	tokens   TokenGenerator
}

func NewAuthService(userRepo UserStore, tokens TokenGenerator) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Register creates a customer account. Carrier and owner accounts are
// created by an owner through UserService.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleCustomer,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.VerifyPassword(user.Password, req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.VerifyPassword(user.Password, req.OldPassword) {
		return validationError("invalid old password")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}
