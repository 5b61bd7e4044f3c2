package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shiftsurge/shift-system/internal/core/domain"
	"github.com/shiftsurge/shift-system/internal/core/ports"
)

// ShiftHandler handles HTTP requests for shift lifecycle operations.
type ShiftHandler struct {
	shifts ports.ShiftService
	claims ports.ClaimService
}

func NewShiftHandler(shifts ports.ShiftService, claims ports.ClaimService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts, claims: claims}
}

// --- Request / Response types ---

type createShiftRequest struct {
	UserID       string    `json:"user_id" validate:"required"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" validate:"required"`
	RoleRequired string    `json:"role_required" validate:"required"`
	BasePayRate  float64   `json:"base_pay_rate" validate:"required,gt=0"`
	LocationName string    `json:"location_name" validate:"required"`
}

type checkInRequest struct {
	GPSLocation string `json:"gps_location,omitempty"`
}

type checkOutRequest struct {
	Notes string `json:"notes,omitempty"`
}

type claimResponse struct {
	Won     bool   `json:"won"`
	Message string `json:"message"`
}

type listShiftsResponse struct {
	Items      []*domain.Shift `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// Create handles POST /v1/shifts.
//
// @Summary      Schedule a new shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createShiftRequest  true  "Shift details"
// @Success      201   {object}  domain.Shift
// @Failure      400   {object}  map[string]string
// @Router       /v1/shifts [post]
func (h *ShiftHandler) Create(c echo.Context) error {
	var req createShiftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	shift, err := h.shifts.CreateShift(c.Request().Context(), ports.CreateShiftInput{
		UserID:       req.UserID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		RoleRequired: req.RoleRequired,
		BasePayRate:  req.BasePayRate,
		LocationName: req.LocationName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, shift)
}

// List handles GET /v1/shifts.
//
// @Summary      List shifts
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        claimable  query     bool    false  "Only open (bidding/ghosted, unassigned) shifts"
// @Param        mine       query     bool    false  "Only shifts assigned to the caller"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listShiftsResponse
// @Router       /v1/shifts [get]
func (h *ShiftHandler) List(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input := ports.ListShiftsInput{
		Status:        c.QueryParam("status"),
		ClaimableOnly: c.QueryParam("claimable") == "true",
		Page:          atoiDefault(c.QueryParam("page"), 1),
		Limit:         atoiDefault(c.QueryParam("limit"), 20),
	}
	if c.QueryParam("mine") == "true" {
		input.UserID = callerID
	}
	if from := c.QueryParam("from"); from != "" {
		if t, parseErr := time.Parse(time.RFC3339, from); parseErr == nil {
			input.From = t
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if t, parseErr := time.Parse(time.RFC3339, to); parseErr == nil {
			input.To = t
		}
	}

	result, err := h.shifts.ListShifts(c.Request().Context(), input)
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.Shift{}
	}
	return c.JSON(http.StatusOK, listShiftsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Claim handles POST /v1/shifts/:id/claim. The claimant is always the
// verified caller; losing is a 200 with won=false, not an error.
//
// @Summary      Claim an open shift
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shift id"
// @Success      200  {object}  claimResponse
// @Failure      404  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Router       /v1/shifts/{id}/claim [post]
func (h *ShiftHandler) Claim(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.claims.ClaimShift(c.Request().Context(), c.Param("id"), callerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, claimResponse{Won: result.Won, Message: result.Message})
}

// CheckIn handles POST /v1/shifts/:id/check-in.
//
// @Summary      Check in to an assigned shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true   "Shift id"
// @Param        body  body      checkInRequest  false  "Optional GPS location"
// @Success      204   "checked in"
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/shifts/{id}/check-in [post]
func (h *ShiftHandler) CheckIn(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	err = h.shifts.CheckIn(c.Request().Context(), ports.CheckInInput{
		ShiftID:     c.Param("id"),
		UserID:      callerID,
		At:          time.Now().UTC(),
		GPSLocation: req.GPSLocation,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckOut handles POST /v1/shifts/:id/check-out.
//
// @Summary      Check out of a shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Shift id"
// @Param        body  body      checkOutRequest  false  "Optional notes"
// @Success      204   "checked out"
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/shifts/{id}/check-out [post]
func (h *ShiftHandler) CheckOut(c echo.Context) error {
	callerID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req checkOutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	err = h.shifts.CheckOut(c.Request().Context(), ports.CheckOutInput{
		ShiftID: c.Param("id"),
		UserID:  callerID,
		At:      time.Now().UTC(),
		Notes:   req.Notes,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Ghost handles POST /v1/shifts/:id/ghost — a manager records a no-show.
//
// @Summary      Mark a shift as ghosted
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Shift id"
// @Success      204  "ghosted"
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/shifts/{id}/ghost [post]
func (h *ShiftHandler) Ghost(c echo.Context) error {
	if err := h.shifts.MarkGhosted(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles POST /v1/shifts/:id/cancel.
//
// @Summary      Cancel a shift
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Shift id"
// @Success      204  "cancelled"
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/shifts/{id}/cancel [post]
func (h *ShiftHandler) Cancel(c echo.Context) error {
	if err := h.shifts.CancelShift(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
