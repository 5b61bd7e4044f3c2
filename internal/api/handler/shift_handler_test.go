package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shiftsurge/shift-system/internal/core/domain"
	"github.com/shiftsurge/shift-system/internal/core/ports"
)

type stubShiftService struct {
	createdShift *domain.Shift
	createErr    error
	listResult   *ports.ListShiftsResult
	checkInErr   error
	checkOutErr  error
	ghostErr     error
	cancelErr    error

	lastCheckIn ports.CheckInInput
}

func (s *stubShiftService) CreateShift(_ context.Context, _ ports.CreateShiftInput) (*domain.Shift, error) {
	return s.createdShift, s.createErr
}

func (s *stubShiftService) ListShifts(_ context.Context, _ ports.ListShiftsInput) (*ports.ListShiftsResult, error) {
	return s.listResult, nil
}

func (s *stubShiftService) CheckIn(_ context.Context, input ports.CheckInInput) error {
	s.lastCheckIn = input
	return s.checkInErr
}

func (s *stubShiftService) CheckOut(context.Context, ports.CheckOutInput) error { return s.checkOutErr }
func (s *stubShiftService) MarkGhosted(context.Context, string) error           { return s.ghostErr }
func (s *stubShiftService) CancelShift(context.Context, string) error           { return s.cancelErr }

type stubClaimService struct {
	result   *ports.ClaimResult
	err      error
	lastUser string
}

func (s *stubClaimService) ClaimShift(_ context.Context, _, userID string) (*ports.ClaimResult, error) {
	s.lastUser = userID
	return s.result, s.err
}

// newShiftTestContext builds an echo context carrying the identity the Auth
// middleware would have injected.
func newShiftTestContext(t *testing.T, method, target, body string, shiftID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("role", "staff")
	if shiftID != "" {
		c.SetParamNames("id")
		c.SetParamValues(shiftID)
	}
	return c, rec
}

func TestShiftHandler_Claim_Won(t *testing.T) {
	claims := &stubClaimService{result: &ports.ClaimResult{Won: true, Message: "shift is yours"}}
	h := NewShiftHandler(&stubShiftService{}, claims)
	c, rec := newShiftTestContext(t, http.MethodPost, "/v1/shifts/s1/claim", "", "s1")

	if err := h.Claim(c); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp claimResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Won {
		t.Error("expected won=true")
	}
	if claims.lastUser != "u1" {
		t.Errorf("claimant = %q, want the verified caller", claims.lastUser)
	}
}

func TestShiftHandler_Claim_Lost(t *testing.T) {
	claims := &stubClaimService{result: &ports.ClaimResult{Won: false, Message: "shift no longer available"}}
	h := NewShiftHandler(&stubShiftService{}, claims)
	c, rec := newShiftTestContext(t, http.MethodPost, "/v1/shifts/s1/claim", "", "s1")

	if err := h.Claim(c); err != nil {
		t.Fatalf("losing a claim must not be an error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp claimResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Won || resp.Message == "" {
		t.Errorf("response = %+v, want won=false with a message", resp)
	}
}

// Service errors pass through untouched so the central error handler can map
// them (404 for unknown shift, 504 for ambiguous outcomes).
func TestShiftHandler_Claim_ErrorsPassThrough(t *testing.T) {
	for name, svcErr := range map[string]error{
		"not found": domain.ErrShiftNotFound,
		"ambiguous": domain.ErrAmbiguousOutcome,
	} {
		claims := &stubClaimService{err: svcErr}
		h := NewShiftHandler(&stubShiftService{}, claims)
		c, _ := newShiftTestContext(t, http.MethodPost, "/v1/shifts/s1/claim", "", "s1")

		if err := h.Claim(c); !errors.Is(err, svcErr) {
			t.Errorf("%s: err = %v, want %v", name, err, svcErr)
		}
	}
}

func TestShiftHandler_Claim_NoIdentity(t *testing.T) {
	h := NewShiftHandler(&stubShiftService{}, &stubClaimService{})
	c, _ := newShiftTestContext(t, http.MethodPost, "/v1/shifts/s1/claim", "", "s1")
	c.Set("user_id", "")

	err := h.Claim(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestShiftHandler_Create(t *testing.T) {
	svc := &stubShiftService{createdShift: &domain.Shift{ID: "s1", Status: domain.StatusScheduled}}
	h := NewShiftHandler(svc, &stubClaimService{})
	body := `{"user_id":"u1","start_time":"2026-09-02T09:00:00Z","end_time":"2026-09-02T17:00:00Z",` +
		`"role_required":"barista","base_pay_rate":100,"location_name":"Downtown"}`
	c, rec := newShiftTestContext(t, http.MethodPost, "/v1/shifts", body, "")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestShiftHandler_Create_Validation(t *testing.T) {
	h := NewShiftHandler(&stubShiftService{}, &stubClaimService{})
	// Missing assignee and non-positive rate.
	body := `{"start_time":"2026-09-02T09:00:00Z","end_time":"2026-09-02T17:00:00Z",` +
		`"role_required":"barista","base_pay_rate":0,"location_name":"Downtown"}`
	c, rec := newShiftTestContext(t, http.MethodPost, "/v1/shifts", body, "")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestShiftHandler_CheckIn(t *testing.T) {
	svc := &stubShiftService{}
	h := NewShiftHandler(svc, &stubClaimService{})
	c, rec := newShiftTestContext(t, http.MethodPost, "/v1/shifts/s1/check-in", `{"gps_location":"40.7,-74.0"}`, "s1")

	if err := h.CheckIn(c); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if svc.lastCheckIn.ShiftID != "s1" || svc.lastCheckIn.UserID != "u1" {
		t.Errorf("check-in input = %+v", svc.lastCheckIn)
	}
	if svc.lastCheckIn.GPSLocation != "40.7,-74.0" {
		t.Errorf("gps = %q", svc.lastCheckIn.GPSLocation)
	}
}

func TestShiftHandler_CheckIn_ErrorsPassThrough(t *testing.T) {
	svc := &stubShiftService{checkInErr: &domain.TransitionError{
		Current: domain.StatusCompleted, Attempt: domain.TriggerCheckIn,
	}}
	h := NewShiftHandler(svc, &stubClaimService{})
	c, _ := newShiftTestContext(t, http.MethodPost, "/v1/shifts/s1/check-in", "", "s1")

	if err := h.CheckIn(c); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want invalid transition to pass through", err)
	}
}

func TestShiftHandler_List(t *testing.T) {
	svc := &stubShiftService{listResult: &ports.ListShiftsResult{
		Items: []*domain.Shift{{ID: "s1", Status: domain.StatusBidding}},
		Total: 1, Page: 1, Limit: 20, TotalPages: 1,
	}}
	h := NewShiftHandler(svc, &stubClaimService{})
	c, rec := newShiftTestContext(t, http.MethodGet, "/v1/shifts?claimable=true", "", "")

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp listShiftsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Total != 1 {
		t.Errorf("response = %+v", resp)
	}
}
