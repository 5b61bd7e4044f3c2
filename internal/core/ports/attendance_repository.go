package ports

import (
	"context"
	"time"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// AttendanceRepository persists attendance logs.
type AttendanceRepository interface {
	// Create inserts a new log at check-in time.
	Create(ctx context.Context, log *domain.AttendanceLog) error
	// Complete sets the check-out time and notes on the open log for
	// (shiftID, userID).
	Complete(ctx context.Context, shiftID, userID string, at time.Time, notes string) error
}
