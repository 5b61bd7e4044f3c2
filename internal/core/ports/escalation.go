package ports

import (
	"context"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

// SweepResult reports how many shifts a sweep escalated and marked notified.
type SweepResult struct {
	NotifiedCount int
}

// EscalationService runs the ghost broadcast: escalate every ghosted,
// unnotified shift to surge pay and hand the audience off to the notifier.
// Safe to invoke repeatedly; a sweep with nothing to do returns zero.
type EscalationService interface {
	RunEscalationSweep(ctx context.Context) (*SweepResult, error)
}

// Notifier delivers a shift-opportunity alert to a set of users. Delivery
// transport is an external collaborator's concern; the core only observes
// success or failure for logging.
type Notifier interface {
	Notify(ctx context.Context, audience []string, shift *domain.Shift) error
}
