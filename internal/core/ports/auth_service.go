package ports

import (
	"context"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, displayName, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
