package ports

import (
	"context"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// ListActiveStaff returns every active user with the staff role; this is
	// the escalation broadcast audience.
	ListActiveStaff(ctx context.Context) ([]*domain.User, error)
	// AdjustReliability adds delta to the user's reliability score, clamped
	// to [domain.ReliabilityMin, domain.ReliabilityMax] at the store.
	AdjustReliability(ctx context.Context, userID string, delta int) error
}
