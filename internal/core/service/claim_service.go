package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shiftsurge/shift-system/internal/api/metrics"
	"github.com/shiftsurge/shift-system/internal/core/domain"
	"github.com/shiftsurge/shift-system/internal/core/ports"
)

const loserMessage = "shift no longer available"

type claimService struct {
	shifts ports.ShiftRepository
	log    zerolog.Logger
}

// NewClaimService returns a ClaimService implementation. The service holds no
// process-local lock: claimants may arrive from independent processes, so the
// store's conditional write is the only arbitration mechanism.
func NewClaimService(shifts ports.ShiftRepository, log zerolog.Logger) ports.ClaimService {
	return &claimService{shifts: shifts, log: log}
}

// ClaimShift awards the shift to userID iff it is still claimable at write
// time. Exactly one of any set of concurrent claimants wins; every loser gets
// Won == false with a user-presentable message and no store side effect.
func (s *claimService) ClaimShift(ctx context.Context, shiftID, userID string) (*ports.ClaimResult, error) {
	shift, err := s.shifts.ClaimOpen(ctx, shiftID, userID)
	switch {
	case err == nil:
		metrics.ClaimsTotal.WithLabelValues("won").Inc()
		s.log.Info().
			Str("shift_id", shiftID).
			Str("user_id", userID).
			Float64("pay_rate", shift.CurrentPayRate).
			Msg("shift claimed")
		return &ports.ClaimResult{Won: true, Message: "shift is yours"}, nil

	case errors.Is(err, domain.ErrShiftUnavailable):
		// Lost the race, or the shift was never open. The fine-grained cause
		// stays in the log; the caller sees one collapsed loser message.
		metrics.ClaimsTotal.WithLabelValues("lost").Inc()
		s.log.Info().
			Str("shift_id", shiftID).
			Str("user_id", userID).
			AnErr("cause", err).
			Msg("claim lost")
		return &ports.ClaimResult{Won: false, Message: loserMessage}, nil

	case errors.Is(err, domain.ErrShiftNotFound):
		metrics.ClaimsTotal.WithLabelValues("not_found").Inc()
		return nil, err

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		// The write may or may not have landed. Never report this as a loss:
		// the caller must re-query before re-attempting.
		metrics.ClaimsTotal.WithLabelValues("ambiguous").Inc()
		s.log.Error().Err(err).
			Str("shift_id", shiftID).
			Str("user_id", userID).
			Msg("claim write outcome unknown")
		return nil, fmt.Errorf("claim shift %s: %w", shiftID, domain.ErrAmbiguousOutcome)

	default:
		metrics.ClaimsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("claim shift %s: %w", shiftID, err)
	}
}
