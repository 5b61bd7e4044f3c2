package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shiftsurge/shift-system/internal/core/ports"
)

// EscalationHandler exposes the manager "broadcast" button.
type EscalationHandler struct {
	escalation ports.EscalationService
}

func NewEscalationHandler(escalation ports.EscalationService) *EscalationHandler {
	return &EscalationHandler{escalation: escalation}
}

type sweepResponse struct {
	NotifiedCount int `json:"notified_count"`
}

// Run handles POST /v1/escalations/run. Safe to invoke repeatedly: a sweep
// with no new ghosted shifts returns notified_count 0.
//
// @Summary      Escalate all ghosted shifts to surge pay and notify staff
// @Tags         escalations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sweepResponse
// @Failure      500  {object}  map[string]string
// @Router       /v1/escalations/run [post]
func (h *EscalationHandler) Run(c echo.Context) error {
	result, err := h.escalation.RunEscalationSweep(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweepResponse{NotifiedCount: result.NotifiedCount})
}
