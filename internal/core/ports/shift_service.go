package ports

import (
	"context"
	"time"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// CreateShiftInput carries all data needed to schedule a new shift.
type CreateShiftInput struct {
	UserID       string // optional: pre-assigned staff member
	StartTime    time.Time
	EndTime      time.Time
	RoleRequired string
	BasePayRate  float64
	LocationName string
}

// CheckInInput identifies the caller checking in to a shift.
type CheckInInput struct {
	ShiftID     string
	UserID      string // verified caller identity
	At          time.Time
	GPSLocation string // optional
}

// CheckOutInput identifies the caller checking out of a shift.
type CheckOutInput struct {
	ShiftID string
	UserID  string
	At      time.Time
	Notes   string // optional
}

// ListShiftsInput carries all parameters for the list endpoint.
type ListShiftsInput struct {
	Status        string
	UserID        string
	ClaimableOnly bool
	From          time.Time
	To            time.Time
	Page          int
	Limit         int
}

// ListShiftsResult is returned by ListShifts.
type ListShiftsResult struct {
	Items      []*domain.Shift
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ShiftService defines the lifecycle use-cases exposed to the presentation
// layer. Claiming lives on ClaimService because it needs the store's atomic
// award primitive rather than a bare state-machine call.
type ShiftService interface {
	CreateShift(ctx context.Context, input CreateShiftInput) (*domain.Shift, error)
	ListShifts(ctx context.Context, input ListShiftsInput) (*ListShiftsResult, error)
	CheckIn(ctx context.Context, input CheckInInput) error
	CheckOut(ctx context.Context, input CheckOutInput) error
	// MarkGhosted transitions a scheduled shift with a no-show to ghosted and
	// clears the assignee. Pay is untouched; escalation is a separate step.
	MarkGhosted(ctx context.Context, shiftID string) error
	CancelShift(ctx context.Context, shiftID string) error
}
