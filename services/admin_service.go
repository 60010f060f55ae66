package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/scouting-system/models"
	"github.com/Dosada05/scouting-system/repositories"
)

const (
	defaultUsersPageSize = 20
	maxUsersPageSize     = 100
)

type AdminUserService interface {
	ListUsers(ctx context.Context, filter models.UserFilter) (models.UserListResponse, error)
	UpdateRole(ctx context.Context, actorID, userID string, role models.UserRole) error
	SetActive(ctx context.Context, actorID, userID string, active bool) error
	DeleteUser(ctx context.Context, actorID, userID string) error
}

type adminUserService struct {
	userRepo repositories.UserRepository
	sessions *SessionStore
}

func NewAdminUserService(userRepo repositories.UserRepository, sessions *SessionStore) AdminUserService {
	return &adminUserService{userRepo: userRepo, sessions: sessions}
}

func (s *adminUserService) ListUsers(ctx context.Context, filter models.UserFilter) (models.UserListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultUsersPageSize
	case filter.Limit > maxUsersPageSize:
		filter.Limit = maxUsersPageSize
	}
	if filter.Role != nil && !models.UserRole(*filter.Role).Valid() {
		return models.UserListResponse{}, ErrInvalidRole
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return models.UserListResponse{}, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return models.UserListResponse{
		Users:      users,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *adminUserService) UpdateRole(ctx context.Context, actorID, userID string, role models.UserRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if actorID == userID {
		return ErrForbiddenOperation
	}
	return userError(s.userRepo.UpdateRole(ctx, userID, role))
}

func (s *adminUserService) SetActive(ctx context.Context, actorID, userID string, active bool) error {
	if actorID == userID && !active {
		return ErrForbiddenOperation
	}
	return userError(s.userRepo.SetActive(ctx, userID, active))
}

func (s *adminUserService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return ErrForbiddenOperation
	}
	if err := userError(s.userRepo.Delete(ctx, userID)); err != nil {
		return err
	}
	if s.sessions != nil {
		s.sessions.Forget(userID)
	}
	return nil
}

func userError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
