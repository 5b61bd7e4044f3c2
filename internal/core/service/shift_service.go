package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftsurge/shift-system/internal/api/metrics"
	"github.com/shiftsurge/shift-system/internal/core/domain"
	"github.com/shiftsurge/shift-system/internal/core/ports"
)

const (
	maxPageSize = 100

	// Reliability-score policy: showing up (or not) moves the score, claiming
	// does not. Clamping to [0,100] happens at the store.
	reliabilityGhostPenalty   = -10
	reliabilityCompleteReward = 1
)

type ShiftService struct {
	shifts     ports.ShiftRepository
	users      ports.UserRepository
	attendance ports.AttendanceRepository
	logger     zerolog.Logger
}

func NewShiftService(
	shifts ports.ShiftRepository,
	users ports.UserRepository,
	attendance ports.AttendanceRepository,
	logger zerolog.Logger,
) *ShiftService {
	return &ShiftService{shifts: shifts, users: users, attendance: attendance, logger: logger}
}

// CreateShift schedules a new shift in the scheduled state with the current
// pay rate pinned to the base rate.
func (s *ShiftService) CreateShift(ctx context.Context, input ports.CreateShiftInput) (*domain.Shift, error) {
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("create shift: end_time must be after start_time")
	}
	if input.BasePayRate <= 0 {
		return nil, fmt.Errorf("create shift: base_pay_rate must be positive")
	}
	if input.UserID != "" {
		if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
			return nil, fmt.Errorf("create shift: %w", err)
		}
	}

	shift := &domain.Shift{
		UserID:         input.UserID,
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		Status:         domain.StatusScheduled,
		RoleRequired:   input.RoleRequired,
		BasePayRate:    input.BasePayRate,
		CurrentPayRate: input.BasePayRate,
		LocationName:   input.LocationName,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.shifts.Create(ctx, shift); err != nil {
		s.logger.Error().Err(err).Msg("failed to create shift")
		return nil, err
	}

	s.logger.Info().
		Str("shift_id", shift.ID).
		Str("role_required", shift.RoleRequired).
		Time("start_time", shift.StartTime).
		Msg("shift created")
	return shift, nil
}

// ListShifts returns a page of shifts. Read-only, delegated to the store.
func (s *ShiftService) ListShifts(ctx context.Context, input ports.ListShiftsInput) (*ports.ListShiftsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.shifts.List(ctx, ports.ListShiftsFilter{
		Status:        input.Status,
		UserID:        input.UserID,
		ClaimableOnly: input.ClaimableOnly,
		From:          input.From,
		To:            input.To,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListShiftsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// CheckIn moves a scheduled shift to checked_in and opens an attendance log.
// Only the assigned staff member may check in, and only inside the shift
// window.
func (s *ShiftService) CheckIn(ctx context.Context, input ports.CheckInInput) error {
	shift, err := s.shifts.FindByID(ctx, input.ShiftID)
	if err != nil {
		return err
	}
	if shift.UserID != input.UserID {
		return domain.ErrForbidden
	}

	if _, err := shift.Status.Apply(domain.TriggerCheckIn); err != nil {
		return err
	}
	if !shift.InWindow(input.At) {
		// Out-of-window check-in is a transition failure, not a separate
		// error kind.
		return &domain.TransitionError{Current: shift.Status, Attempt: domain.TriggerCheckIn}
	}

	if err := s.transition(ctx, shift, domain.TriggerCheckIn, false); err != nil {
		return err
	}

	logEntry := &domain.AttendanceLog{
		ShiftID:     shift.ID,
		UserID:      input.UserID,
		CheckInTime: input.At.UTC(),
		GPSLocation: input.GPSLocation,
	}
	if err := s.attendance.Create(ctx, logEntry); err != nil {
		// The status change already landed; the missing log is recoverable.
		s.logger.Warn().Err(err).Str("shift_id", shift.ID).Msg("failed to create attendance log")
	}

	s.logger.Info().Str("shift_id", shift.ID).Str("user_id", input.UserID).Msg("checked in")
	return nil
}

// CheckOut completes a checked-in shift, closes the attendance log, and
// rewards the worker's reliability score.
func (s *ShiftService) CheckOut(ctx context.Context, input ports.CheckOutInput) error {
	shift, err := s.shifts.FindByID(ctx, input.ShiftID)
	if err != nil {
		return err
	}
	if shift.UserID != input.UserID {
		return domain.ErrForbidden
	}
	if _, err := shift.Status.Apply(domain.TriggerCheckOut); err != nil {
		return err
	}

	if err := s.transition(ctx, shift, domain.TriggerCheckOut, false); err != nil {
		return err
	}

	if err := s.attendance.Complete(ctx, shift.ID, input.UserID, input.At.UTC(), input.Notes); err != nil {
		s.logger.Warn().Err(err).Str("shift_id", shift.ID).Msg("failed to complete attendance log")
	}
	if err := s.users.AdjustReliability(ctx, input.UserID, reliabilityCompleteReward); err != nil {
		s.logger.Warn().Err(err).Str("user_id", input.UserID).Msg("failed to adjust reliability score")
	}

	s.logger.Info().Str("shift_id", shift.ID).Str("user_id", input.UserID).Msg("checked out")
	return nil
}

// MarkGhosted records a no-show: the shift moves to ghosted and its assignee
// is cleared in the same write. Pay is untouched here; escalation is a
// separate, composable step.
func (s *ShiftService) MarkGhosted(ctx context.Context, shiftID string) error {
	return s.ghost(ctx, shiftID, "manager")
}

func (s *ShiftService) ghost(ctx context.Context, shiftID, source string) error {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if _, err := shift.Status.Apply(domain.TriggerGhost); err != nil {
		return err
	}
	ghostedUser := shift.UserID

	if err := s.transition(ctx, shift, domain.TriggerGhost, true); err != nil {
		return err
	}

	if ghostedUser != "" {
		if err := s.users.AdjustReliability(ctx, ghostedUser, reliabilityGhostPenalty); err != nil {
			s.logger.Warn().Err(err).Str("user_id", ghostedUser).Msg("failed to adjust reliability score")
		}
	}

	metrics.GhostsDetectedTotal.WithLabelValues(source).Inc()
	s.logger.Info().
		Str("shift_id", shiftID).
		Str("ghosted_user_id", ghostedUser).
		Str("source", source).
		Msg("shift ghosted")
	return nil
}

// CancelShift cancels a shift from any non-terminal state and clears the
// assignee. Shifts are never physically deleted.
func (s *ShiftService) CancelShift(ctx context.Context, shiftID string) error {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if _, err := shift.Status.Apply(domain.TriggerCancel); err != nil {
		return err
	}

	if err := s.transition(ctx, shift, domain.TriggerCancel, true); err != nil {
		return err
	}

	s.logger.Info().Str("shift_id", shiftID).Msg("shift cancelled")
	return nil
}

// transition applies trigger through the guarded store write. When the guard
// misses (the shift moved under us), the current state is re-read so the
// caller gets an accurate TransitionError instead of a bare conflict.
func (s *ShiftService) transition(ctx context.Context, shift *domain.Shift, trigger domain.Trigger, clearAssignee bool) error {
	next, err := shift.Status.Apply(trigger)
	if err != nil {
		return err
	}

	err = s.shifts.TransitionStatus(ctx, shift.ID, shift.Status, next, clearAssignee)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrShiftUnavailable) {
		current, findErr := s.shifts.FindByID(ctx, shift.ID)
		if findErr != nil {
			return findErr
		}
		return &domain.TransitionError{Current: current.Status, Attempt: trigger}
	}
	return err
}
