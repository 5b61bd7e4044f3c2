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

// DefaultSurgeMultiplier is applied to the base pay rate when a ghosted shift
// is reopened for bidding.
const DefaultSurgeMultiplier = 1.5

// NotifyDeduper abstracts the delivery-dedup store (Redis). The notified flag
// on the shift guards escalation exactly once; this guards the external
// delivery, which may otherwise be retried after a partial sweep.
type NotifyDeduper interface {
	IsDelivered(ctx context.Context, shiftID string) (bool, error)
	MarkDelivered(ctx context.Context, shiftID string) error
}

type escalationService struct {
	shifts     ports.ShiftRepository
	users      ports.UserRepository
	notifier   ports.Notifier
	dedup      NotifyDeduper
	multiplier float64
	log        zerolog.Logger
}

// NewEscalationService returns an EscalationService implementation. A
// multiplier <= 1 falls back to DefaultSurgeMultiplier, preserving the
// current_pay_rate >= base_pay_rate invariant.
func NewEscalationService(
	shifts ports.ShiftRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	dedup NotifyDeduper,
	multiplier float64,
	log zerolog.Logger,
) ports.EscalationService {
	if multiplier <= 1 {
		multiplier = DefaultSurgeMultiplier
	}
	return &escalationService{
		shifts:     shifts,
		users:      users,
		notifier:   notifier,
		dedup:      dedup,
		multiplier: multiplier,
		log:        log,
	}
}

// RunEscalationSweep escalates every ghosted, unnotified shift to surge pay
// and broadcasts it to all active staff. One failing shift never blocks the
// rest, and a repeat sweep with nothing new is a no-op returning zero.
func (s *escalationService) RunEscalationSweep(ctx context.Context) (*ports.SweepResult, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	// 1. Candidates: ghosted shifts nobody has been told about yet.
	candidates, err := s.shifts.ListGhostedUnnotified(ctx)
	if err != nil {
		return nil, fmt.Errorf("escalation sweep: %w", err)
	}
	if len(candidates) == 0 {
		s.log.Debug().Msg("escalation sweep: nothing to do")
		return &ports.SweepResult{}, nil
	}

	// 2. Audience: every active staff member. Resolved before any mutation so
	// an audience failure leaves the sweep fully re-runnable.
	staff, err := s.users.ListActiveStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("escalation sweep: resolve audience: %w", err)
	}
	audience := make([]string, 0, len(staff))
	for _, u := range staff {
		audience = append(audience, u.ID)
	}

	result := &ports.SweepResult{}
	for _, shift := range candidates {
		// 3. Escalate + mark notified as one guarded write. The ghosted
		// precondition makes a re-run safe: an already-escalated shift no
		// longer matches and its pay is never multiplied twice.
		escalated, err := s.shifts.EscalateUnnotified(ctx, shift.ID, s.multiplier)
		if errors.Is(err, domain.ErrShiftUnavailable) {
			s.log.Debug().Str("shift_id", shift.ID).Msg("shift escalated concurrently, skipping")
			continue
		}
		if err != nil {
			s.log.Error().Err(err).Str("shift_id", shift.ID).Msg("failed to escalate shift")
			continue
		}
		result.NotifiedCount++
		metrics.ShiftsEscalatedTotal.Inc()
		s.log.Info().
			Str("shift_id", escalated.ID).
			Float64("base_pay_rate", escalated.BasePayRate).
			Float64("current_pay_rate", escalated.CurrentPayRate).
			Msg("shift escalated to surge pay")

		// 4. Hand off to the notifier. Delivery failure is the collaborator's
		// concern: log, count, move on.
		s.deliver(ctx, audience, escalated)
	}

	s.log.Info().
		Int("notified_count", result.NotifiedCount).
		Int("candidates", len(candidates)).
		Dur("elapsed", time.Since(start)).
		Msg("escalation sweep complete")
	return result, nil
}

func (s *escalationService) deliver(ctx context.Context, audience []string, shift *domain.Shift) {
	delivered, err := s.dedup.IsDelivered(ctx, shift.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("shift_id", shift.ID).Msg("delivery dedup check failed, sending anyway")
	} else if delivered {
		metrics.NotificationsTotal.WithLabelValues("deduped").Inc()
		s.log.Debug().Str("shift_id", shift.ID).Msg("notification already delivered, skipping")
		return
	}

	if err := s.notifier.Notify(ctx, audience, shift); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).Str("shift_id", shift.ID).Msg("notifier delivery failed")
		return
	}

	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	if err := s.dedup.MarkDelivered(ctx, shift.ID); err != nil {
		s.log.Warn().Err(err).Str("shift_id", shift.ID).Msg("failed to set delivery dedup key")
	}
}
