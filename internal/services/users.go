package services

import (
	"context"

	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/models"
)

// UserLister defines the read operation for the user list page.
type UserLister interface {
	List(ctx context.Context) ([]models.UserListItem, error)
}

// UsersService serves the user list page.
type UsersService struct {
	lister UserLister
}

// NewUsersService creates a new UsersService instance.
func NewUsersService(lister UserLister) *UsersService {
	return &UsersService{lister: lister}
}

// List returns all users ordered by creation time.
func (svc *UsersService) List(ctx context.Context) ([]models.UserListItem, error) {
	users, err := svc.lister.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}
