package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftsurge/shift-system/internal/core/domain"
	"github.com/shiftsurge/shift-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. The shift stub implements the conditional
// writes under a mutex, mirroring the atomicity the real Mongo repo provides.
// ---------------------------------------------------------------------------

type stubShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*domain.Shift

	claimErr       error                      // if set, ClaimOpen returns this error
	escalateHook   func(shiftID string) error // non-nil result fails that shift's escalation
	transitionHook func() error               // if set, runs instead of the guarded write
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{shifts: make(map[string]*domain.Shift)}
}

func (r *stubShiftRepo) put(s *domain.Shift) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.shifts[s.ID] = &clone
}

func (r *stubShiftRepo) get(id string) *domain.Shift {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *r.shifts[id]
	return &clone
}

func (r *stubShiftRepo) Create(_ context.Context, s *domain.Shift) error {
	if s.ID == "" {
		s.ID = fmt.Sprintf("shift-%d", len(r.shifts)+1)
	}
	r.put(s)
	return nil
}

func (r *stubShiftRepo) FindByID(_ context.Context, id string) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubShiftRepo) List(_ context.Context, f ports.ListShiftsFilter) ([]*domain.Shift, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Shift
	for _, s := range r.shifts {
		if f.Status != "" && string(s.Status) != f.Status {
			continue
		}
		if f.UserID != "" && s.UserID != f.UserID {
			continue
		}
		if f.ClaimableOnly && !s.Claimable() {
			continue
		}
		clone := *s
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubShiftRepo) ClaimOpen(_ context.Context, shiftID, userID string) (*domain.Shift, error) {
	if r.claimErr != nil {
		return nil, r.claimErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[shiftID]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	if !s.Claimable() {
		return nil, fmt.Errorf("shift %s is %s: %w", shiftID, s.Status, domain.ErrShiftUnavailable)
	}
	s.UserID = userID
	s.Status = domain.StatusFilled
	clone := *s
	return &clone, nil
}

func (r *stubShiftRepo) TransitionStatus(_ context.Context, shiftID string, from, to domain.ShiftStatus, clearAssignee bool) error {
	if r.transitionHook != nil {
		return r.transitionHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[shiftID]
	if !ok {
		return domain.ErrShiftNotFound
	}
	if s.Status != from {
		return fmt.Errorf("shift %s no longer %s: %w", shiftID, from, domain.ErrShiftUnavailable)
	}
	s.Status = to
	if clearAssignee {
		s.UserID = ""
	}
	return nil
}

func (r *stubShiftRepo) ListGhostedUnnotified(_ context.Context) ([]*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Shift
	for _, s := range r.shifts {
		if s.Status == domain.StatusGhosted && !s.IsNotified {
			clone := *s
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *stubShiftRepo) EscalateUnnotified(_ context.Context, shiftID string, multiplier float64) (*domain.Shift, error) {
	if r.escalateHook != nil {
		if err := r.escalateHook(shiftID); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[shiftID]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	if s.Status != domain.StatusGhosted || s.IsNotified {
		return nil, fmt.Errorf("shift %s not ghosted/unnotified: %w", shiftID, domain.ErrShiftUnavailable)
	}
	s.Status = domain.StatusBidding
	s.IsNotified = true
	s.CurrentPayRate = s.BasePayRate * multiplier
	clone := *s
	return &clone, nil
}

func (r *stubShiftRepo) ListOverdueScheduled(_ context.Context, cutoff time.Time) ([]*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Shift
	for _, s := range r.shifts {
		if s.Status == domain.StatusScheduled && s.StartTime.Before(cutoff) {
			clone := *s
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	listErr error
	adjusts map[string]int // accumulated reliability deltas per user
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:   make(map[string]*domain.User),
		adjusts: make(map[string]int),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	clone := *u
	r.users[u.ID] = &clone
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ListActiveStaff(_ context.Context) ([]*domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var staff []*domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleStaff && u.IsActive {
			clone := *u
			staff = append(staff, &clone)
		}
	}
	return staff, nil
}

func (r *stubUserRepo) AdjustReliability(_ context.Context, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	r.adjusts[userID] += delta
	return nil
}

type stubAttendanceRepo struct {
	mu        sync.Mutex
	created   []*domain.AttendanceLog
	completed []string // "shiftID/userID"
}

func (r *stubAttendanceRepo) Create(_ context.Context, log *domain.AttendanceLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *log
	r.created = append(r.created, &clone)
	return nil
}

func (r *stubAttendanceRepo) Complete(_ context.Context, shiftID, userID string, _ time.Time, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, shiftID+"/"+userID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func seedStaff(users *stubUserRepo, id string) {
	users.users[id] = &domain.User{
		ID:               id,
		Username:         id,
		Role:             domain.RoleStaff,
		ReliabilityScore: domain.ReliabilityDefault,
		IsActive:         true,
	}
}

func seedShift(shifts *stubShiftRepo, id, userID string, status domain.ShiftStatus, baseRate float64, start, end time.Time) {
	shifts.put(&domain.Shift{
		ID:             id,
		UserID:         userID,
		StartTime:      start,
		EndTime:        end,
		Status:         status,
		RoleRequired:   "barista",
		BasePayRate:    baseRate,
		CurrentPayRate: baseRate,
		LocationName:   "Downtown",
	})
}

func newTestShiftService(shifts *stubShiftRepo, users *stubUserRepo, attendance *stubAttendanceRepo) *ShiftService {
	return NewShiftService(shifts, users, attendance, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCreateShift(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	start := time.Now().UTC().Add(24 * time.Hour)
	shift, err := svc.CreateShift(context.Background(), ports.CreateShiftInput{
		UserID:       "u1",
		StartTime:    start,
		EndTime:      start.Add(8 * time.Hour),
		RoleRequired: "barista",
		BasePayRate:  100,
		LocationName: "Downtown",
	})
	if err != nil {
		t.Fatalf("CreateShift: %v", err)
	}
	if shift.Status != domain.StatusScheduled {
		t.Errorf("status = %s, want scheduled", shift.Status)
	}
	if shift.CurrentPayRate != shift.BasePayRate {
		t.Errorf("current rate %v != base rate %v", shift.CurrentPayRate, shift.BasePayRate)
	}
}

func TestCreateShift_Invalid(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})
	start := time.Now().UTC()

	if _, err := svc.CreateShift(context.Background(), ports.CreateShiftInput{
		UserID: "u1", StartTime: start, EndTime: start.Add(-time.Hour), BasePayRate: 100,
	}); err == nil {
		t.Errorf("expected error for end before start")
	}
	if _, err := svc.CreateShift(context.Background(), ports.CreateShiftInput{
		UserID: "u1", StartTime: start, EndTime: start.Add(time.Hour), BasePayRate: 0,
	}); err == nil {
		t.Errorf("expected error for non-positive pay rate")
	}
	if _, err := svc.CreateShift(context.Background(), ports.CreateShiftInput{
		UserID: "ghost-user", StartTime: start, EndTime: start.Add(time.Hour), BasePayRate: 100,
	}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown assignee, got %v", err)
	}
}

func TestCheckIn_InWindow(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	attendance := &stubAttendanceRepo{}
	seedStaff(users, "u1")

	now := time.Now().UTC()
	seedShift(shifts, "s1", "u1", domain.StatusScheduled, 100, now.Add(-time.Hour), now.Add(7*time.Hour))
	svc := newTestShiftService(shifts, users, attendance)

	err := svc.CheckIn(context.Background(), ports.CheckInInput{ShiftID: "s1", UserID: "u1", At: now})
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if got := shifts.get("s1").Status; got != domain.StatusCheckedIn {
		t.Errorf("status = %s, want checked_in", got)
	}
	if len(attendance.created) != 1 {
		t.Errorf("expected one attendance log, got %d", len(attendance.created))
	}
}

// Out-of-window check-in fails with InvalidTransition and the stored state
// is untouched.
func TestCheckIn_OutOfWindow(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")

	now := time.Now().UTC()
	seedShift(shifts, "s1", "u1", domain.StatusScheduled, 100, now.Add(2*time.Hour), now.Add(10*time.Hour))
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	err := svc.CheckIn(context.Background(), ports.CheckInInput{ShiftID: "s1", UserID: "u1", At: now})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := shifts.get("s1").Status; got != domain.StatusScheduled {
		t.Errorf("status = %s, want scheduled (unchanged)", got)
	}
}

func TestCheckIn_WrongUser(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")
	seedStaff(users, "u2")

	now := time.Now().UTC()
	seedShift(shifts, "s1", "u1", domain.StatusScheduled, 100, now.Add(-time.Hour), now.Add(7*time.Hour))
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	err := svc.CheckIn(context.Background(), ports.CheckInInput{ShiftID: "s1", UserID: "u2", At: now})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCheckOut_CompletesAndRewards(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	attendance := &stubAttendanceRepo{}
	seedStaff(users, "u1")

	now := time.Now().UTC()
	seedShift(shifts, "s1", "u1", domain.StatusCheckedIn, 100, now.Add(-8*time.Hour), now)
	svc := newTestShiftService(shifts, users, attendance)

	err := svc.CheckOut(context.Background(), ports.CheckOutInput{ShiftID: "s1", UserID: "u1", At: now})
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if got := shifts.get("s1").Status; got != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", got)
	}
	if len(attendance.completed) != 1 {
		t.Errorf("expected one completed log, got %d", len(attendance.completed))
	}
	if users.adjusts["u1"] != reliabilityCompleteReward {
		t.Errorf("reliability delta = %d, want %d", users.adjusts["u1"], reliabilityCompleteReward)
	}
}

func TestMarkGhosted(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")

	now := time.Now().UTC()
	seedShift(shifts, "s1", "u1", domain.StatusScheduled, 100, now.Add(-time.Hour), now.Add(7*time.Hour))
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	if err := svc.MarkGhosted(context.Background(), "s1"); err != nil {
		t.Fatalf("MarkGhosted: %v", err)
	}

	got := shifts.get("s1")
	if got.Status != domain.StatusGhosted {
		t.Errorf("status = %s, want ghosted", got.Status)
	}
	if got.UserID != "" {
		t.Errorf("assignee = %q, want cleared", got.UserID)
	}
	if got.CurrentPayRate != got.BasePayRate {
		t.Errorf("ghosting must not change pay: current %v, base %v", got.CurrentPayRate, got.BasePayRate)
	}
	if users.adjusts["u1"] != reliabilityGhostPenalty {
		t.Errorf("reliability delta = %d, want %d", users.adjusts["u1"], reliabilityGhostPenalty)
	}
}

func TestMarkGhosted_RejectsNonScheduled(t *testing.T) {
	for _, status := range []domain.ShiftStatus{
		domain.StatusCheckedIn, domain.StatusCompleted, domain.StatusBidding,
		domain.StatusFilled, domain.StatusGhosted, domain.StatusCancelled,
	} {
		shifts := newStubShiftRepo()
		users := newStubUserRepo()
		now := time.Now().UTC()
		seedShift(shifts, "s1", "", status, 100, now, now.Add(8*time.Hour))
		svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

		err := svc.MarkGhosted(context.Background(), "s1")
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("ghost from %s: expected ErrInvalidTransition, got %v", status, err)
		}
		if got := shifts.get("s1").Status; got != status {
			t.Errorf("ghost from %s: stored status changed to %s", status, got)
		}
	}
}

func TestCancelShift(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	now := time.Now().UTC()
	seedShift(shifts, "s1", "u1", domain.StatusFilled, 100, now, now.Add(8*time.Hour))
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	if err := svc.CancelShift(context.Background(), "s1"); err != nil {
		t.Fatalf("CancelShift: %v", err)
	}
	got := shifts.get("s1")
	if got.Status != domain.StatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}
	if got.UserID != "" {
		t.Errorf("assignee = %q, want cleared", got.UserID)
	}
}

func TestCancelShift_Terminal(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	now := time.Now().UTC()
	seedShift(shifts, "s1", "", domain.StatusCompleted, 100, now, now.Add(8*time.Hour))
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	if err := svc.CancelShift(context.Background(), "s1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

// A concurrent state change between read and write surfaces as an accurate
// TransitionError built from the re-read state.
func TestTransition_GuardMiss(t *testing.T) {
	shifts := newStubShiftRepo()
	users := newStubUserRepo()
	seedStaff(users, "u1")
	now := time.Now().UTC()
	seedShift(shifts, "s1", "u1", domain.StatusScheduled, 100, now.Add(-time.Hour), now.Add(7*time.Hour))
	svc := newTestShiftService(shifts, users, &stubAttendanceRepo{})

	// The shift moves on between the service's read and its guarded write.
	shifts.transitionHook = func() error {
		s := shifts.get("s1")
		s.Status = domain.StatusCancelled
		shifts.put(s)
		return fmt.Errorf("stale: %w", domain.ErrShiftUnavailable)
	}

	err := svc.MarkGhosted(context.Background(), "s1")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *domain.TransitionError
	if !errors.As(err, &te) || te.Current != domain.StatusCancelled {
		t.Fatalf("TransitionError should carry the re-read state, got %v", err)
	}
}
