package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftsurge/shift-system/internal/core/domain"
)

func TestSweepOnce_GhostsOverdueShifts(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	now := time.Now().UTC()
	// Started an hour ago, nobody checked in: overdue.
	seedShift(shifts, "overdue", "u1", domain.StatusScheduled, 100, now.Add(-time.Hour), now.Add(7*time.Hour))
	// Starts in the future: untouched.
	seedShift(shifts, "upcoming", "u1", domain.StatusScheduled, 100, now.Add(time.Hour), now.Add(9*time.Hour))
	// Started long ago but the worker checked in: untouched.
	seedShift(shifts, "working", "u1", domain.StatusCheckedIn, 100, now.Add(-2*time.Hour), now.Add(6*time.Hour))

	sweeper := NewGhostSweeper(svc, 15*time.Minute, time.Minute, zerolog.Nop())

	n, err := sweeper.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if n != 1 {
		t.Fatalf("ghosted = %d, want 1", n)
	}
	if got := shifts.get("overdue").Status; got != domain.StatusGhosted {
		t.Errorf("overdue status = %s, want ghosted", got)
	}
	if got := shifts.get("upcoming").Status; got != domain.StatusScheduled {
		t.Errorf("upcoming status = %s, want scheduled", got)
	}
	if got := shifts.get("working").Status; got != domain.StatusCheckedIn {
		t.Errorf("working status = %s, want checked_in", got)
	}
	if users.adjusts["u1"] != reliabilityGhostPenalty {
		t.Errorf("reliability delta = %d, want %d", users.adjusts["u1"], reliabilityGhostPenalty)
	}
}

func TestSweepOnce_GracePeriodHoldsBack(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	now := time.Now().UTC()
	// Five minutes late is inside the fifteen-minute grace window.
	seedShift(shifts, "late", "u1", domain.StatusScheduled, 100, now.Add(-5*time.Minute), now.Add(8*time.Hour))

	sweeper := NewGhostSweeper(svc, 15*time.Minute, time.Minute, zerolog.Nop())

	n, err := sweeper.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if n != 0 {
		t.Errorf("ghosted = %d, want 0", n)
	}
	if got := shifts.get("late").Status; got != domain.StatusScheduled {
		t.Errorf("status = %s, want scheduled", got)
	}
}

func TestSweepOnce_SecondPassIsNoOp(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	now := time.Now().UTC()
	seedShift(shifts, "overdue", "u1", domain.StatusScheduled, 100, now.Add(-time.Hour), now.Add(7*time.Hour))

	sweeper := NewGhostSweeper(svc, 15*time.Minute, time.Minute, zerolog.Nop())

	if n, err := sweeper.SweepOnce(context.Background()); err != nil || n != 1 {
		t.Fatalf("first pass: n=%d err=%v", n, err)
	}
	if n, err := sweeper.SweepOnce(context.Background()); err != nil || n != 0 {
		t.Fatalf("second pass: n=%d err=%v, want 0 ghosted", n, err)
	}
	if users.adjusts["u1"] != reliabilityGhostPenalty {
		t.Errorf("penalty applied more than once: delta %d", users.adjusts["u1"])
	}
}
