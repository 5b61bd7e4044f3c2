package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// GhostSweeper periodically ghosts scheduled shifts whose start time passed
// by more than the grace period with no check-in. Manager-triggered ghosting
// remains the primary path; the sweeper is a safety net and is re-entrant:
// every candidate goes through the same scheduled-required guard, so a
// concurrent manager action or a second sweep simply finds nothing to do.
type GhostSweeper struct {
	svc      *ShiftService
	grace    time.Duration
	interval time.Duration
	log      zerolog.Logger
}

func NewGhostSweeper(svc *ShiftService, grace, interval time.Duration, log zerolog.Logger) *GhostSweeper {
	if grace <= 0 {
		grace = 15 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &GhostSweeper{svc: svc, grace: grace, interval: interval, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (w *GhostSweeper) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *GhostSweeper) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info().
		Dur("grace", w.grace).
		Dur("interval", w.interval).
		Msg("ghost sweeper started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ghost sweeper stopped")
			return
		case <-ticker.C:
			if n, err := w.SweepOnce(ctx); err != nil {
				w.log.Error().Err(err).Msg("ghost sweep failed")
			} else if n > 0 {
				w.log.Info().Int("ghosted", n).Msg("ghost sweep complete")
			}
		}
	}
}

// SweepOnce runs a single pass and returns how many shifts were ghosted.
func (w *GhostSweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-w.grace)
	overdue, err := w.svc.shifts.ListOverdueScheduled(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	ghosted := 0
	for _, shift := range overdue {
		err := w.svc.ghost(ctx, shift.ID, "sweeper")
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrShiftUnavailable) {
			// Raced with a check-in, a manager action, or another sweep.
			continue
		}
		if err != nil {
			w.log.Error().Err(err).Str("shift_id", shift.ID).Msg("failed to ghost overdue shift")
			continue
		}
		ghosted++
	}
	return ghosted, nil
}
