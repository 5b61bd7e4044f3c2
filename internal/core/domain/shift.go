package domain

import (
	"errors"
	"fmt"
	"time"
)

// ShiftStatus represents the lifecycle state of a shift.
type ShiftStatus string

const (
	StatusScheduled ShiftStatus = "scheduled"
	StatusCheckedIn ShiftStatus = "checked_in"
	StatusCompleted ShiftStatus = "completed"
	StatusGhosted   ShiftStatus = "ghosted"
	StatusBidding   ShiftStatus = "bidding"
	StatusFilled    ShiftStatus = "filled"
	StatusCancelled ShiftStatus = "cancelled"
)

// Trigger names the action attempting a status transition. Used for
// diagnostics in TransitionError.
type Trigger string

const (
	TriggerCheckIn  Trigger = "check_in"
	TriggerCheckOut Trigger = "check_out"
	TriggerGhost    Trigger = "ghost"
	TriggerEscalate Trigger = "escalate"
	TriggerClaim    Trigger = "claim"
	TriggerCancel   Trigger = "cancel"
)

// transitions defines the allowed state machine moves per trigger.
// Cancel is handled separately: it is valid from every non-terminal state.
var transitions = map[ShiftStatus]map[Trigger]ShiftStatus{
	StatusScheduled: {TriggerCheckIn: StatusCheckedIn, TriggerGhost: StatusGhosted},
	StatusCheckedIn: {TriggerCheckOut: StatusCompleted},
	StatusGhosted:   {TriggerEscalate: StatusBidding, TriggerClaim: StatusFilled},
	StatusBidding:   {TriggerClaim: StatusFilled},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrShiftNotFound = errors.New("shift not found")
var ErrShiftUnavailable = errors.New("shift no longer available")
var ErrAmbiguousOutcome = errors.New("store write outcome unknown")
var ErrForbidden = errors.New("access forbidden")

// TransitionError reports a rejected transition attempt. It unwraps to
// ErrInvalidTransition so callers can match with errors.Is.
type TransitionError struct {
	Current ShiftStatus
	Attempt Trigger
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: cannot %s a %s shift", e.Attempt, e.Current)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Apply validates trigger against the current status and returns the
// destination status, or a TransitionError. It never mutates anything;
// persisting the result is the caller's job.
func (s ShiftStatus) Apply(trigger Trigger) (ShiftStatus, error) {
	if trigger == TriggerCancel {
		if s.Terminal() {
			return "", &TransitionError{Current: s, Attempt: trigger}
		}
		return StatusCancelled, nil
	}
	next, ok := transitions[s][trigger]
	if !ok {
		return "", &TransitionError{Current: s, Attempt: trigger}
	}
	return next, nil
}

// Terminal reports whether no further transitions are allowed.
func (s ShiftStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Claimable reports whether the shift is open for claiming: advertised
// (bidding) or freshly vacated (ghosted), with nobody assigned. Ghosted
// shifts are claimable directly; escalation only raises the rate.
func (s *Shift) Claimable() bool {
	return (s.Status == StatusBidding || s.Status == StatusGhosted) && s.UserID == ""
}

// InWindow reports whether t falls inside the scheduled shift window.
// Check-in is only allowed in-window.
func (s *Shift) InWindow(t time.Time) bool {
	return !t.Before(s.StartTime) && !t.After(s.EndTime)
}

// Shift is the core aggregate root.
type Shift struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	UserID         string      `json:"user_id,omitempty" bson:"user_id,omitempty"`
	StartTime      time.Time   `json:"start_time" bson:"start_time"`
	EndTime        time.Time   `json:"end_time" bson:"end_time"`
	Status         ShiftStatus `json:"status" bson:"status"`
	RoleRequired   string      `json:"role_required" bson:"role_required"`
	BasePayRate    float64     `json:"base_pay_rate" bson:"base_pay_rate"`
	CurrentPayRate float64     `json:"current_pay_rate" bson:"current_pay_rate"`
	LocationName   string      `json:"location_name" bson:"location_name"`
	IsNotified     bool        `json:"is_notified" bson:"is_notified"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
}
