package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grocery-store/models"
	"grocery-store/utils"
)

type UserService struct {
	userRepo UserStore
}

func NewUserService(userRepo UserStore) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetAllUsers(ctx context.Context, role string, page, limit int) (*models.PaginationResponse, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, validationError("unknown role %q", role)
	}

	users, total, err := s.userRepo.FindAll(ctx, role, page, limit)
	if err != nil {
		return nil, err
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    users,
		Meta:    models.NewMetaData(page, limit, total),
	}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, validationError("unknown role %q", req.Role)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		Role:     req.Role,
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
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			return nil, validationError("unknown role %q", req.Role)
		}
		user.Role = req.Role
	}
	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Owners cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return validationError("cannot delete your own account")
	}
	return s.userRepo.Delete(ctx, id)
}
