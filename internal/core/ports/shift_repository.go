package ports

import (
	"context"
	"time"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// ListShiftsFilter carries all query parameters for listing shifts.
type ListShiftsFilter struct {
	Status        string    // optional: filter by shift status
	UserID        string    // optional: shifts assigned to this user
	ClaimableOnly bool      // only bidding/ghosted shifts with no assignee
	From          time.Time // optional: start_time >= From
	To            time.Time // optional: start_time <= To
	Page          int       // 1-based
	Limit         int       // max rows per page (capped at 100 by service)
}

// ShiftRepository defines persistence operations for shifts. The conditional
// methods (ClaimOpen, TransitionStatus, EscalateUnnotified) are the atomicity
// primitives the claim and escalation protocols depend on: each is evaluated
// and applied as one indivisible store operation, never read-then-write.
type ShiftRepository interface {
	Create(ctx context.Context, s *domain.Shift) error
	FindByID(ctx context.Context, id string) (*domain.Shift, error)
	// List returns a page of shifts matching filter and the total count.
	List(ctx context.Context, filter ListShiftsFilter) ([]*domain.Shift, int64, error)

	// ClaimOpen atomically assigns the shift to userID and sets status to
	// filled, iff it is currently claimable (bidding or ghosted, unassigned).
	// Returns the updated shift on success, domain.ErrShiftNotFound when no
	// shift with that id exists, and domain.ErrShiftUnavailable when the
	// shift exists but the conditional write matched nothing (already
	// claimed, or not open).
	ClaimOpen(ctx context.Context, shiftID, userID string) (*domain.Shift, error)

	// TransitionStatus atomically moves the shift from one status to another,
	// guarded on the stored status still being `from`. When clearAssignee is
	// true the assignee is unset in the same write. Returns
	// domain.ErrShiftNotFound when the shift is absent and
	// domain.ErrShiftUnavailable when the guard did not match.
	TransitionStatus(ctx context.Context, shiftID string, from, to domain.ShiftStatus, clearAssignee bool) error

	// ListGhostedUnnotified returns shifts pending surge escalation.
	ListGhostedUnnotified(ctx context.Context) ([]*domain.Shift, error)

	// EscalateUnnotified escalates a single ghosted shift as one guarded
	// write: status -> bidding, current_pay_rate = base_pay_rate*multiplier,
	// is_notified = true. Returns the escalated shift, or
	// domain.ErrShiftUnavailable when the shift was no longer ghosted and
	// unnotified (a concurrent sweep got there first).
	EscalateUnnotified(ctx context.Context, shiftID string, multiplier float64) (*domain.Shift, error)

	// ListOverdueScheduled returns scheduled shifts whose start time passed
	// before cutoff with nobody checked in. Used by the background sweep.
	ListOverdueScheduled(ctx context.Context, cutoff time.Time) ([]*domain.Shift, error)
}
