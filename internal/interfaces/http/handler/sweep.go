package handler

import (
	"time"

	ledgerapp "github.com/estate/backend/internal/application/ledger"
	"github.com/estate/backend/internal/infrastructure/scheduler"
	"github.com/estate/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SweepHandler handles overdue sweep administration endpoints
type SweepHandler struct {
	BaseHandler
	sweeper        *ledgerapp.OverdueSweeper
	sweepScheduler *scheduler.SweepScheduler
}

// NewSweepHandler creates a new sweep handler. The scheduler may be nil
// when the nightly sweep is disabled by configuration.
func NewSweepHandler(sweeper *ledgerapp.OverdueSweeper, sweepScheduler *scheduler.SweepScheduler) *SweepHandler {
	return &SweepHandler{sweeper: sweeper, sweepScheduler: sweepScheduler}
}

// Run marks overdue installments immediately and returns the result.
// An optional plot_id query restricts the sweep to one plot.
func (h *SweepHandler) Run(c *gin.Context) {
	var plotID *uuid.UUID
	if raw := c.Query("plot_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid plot ID")
			return
		}
		plotID = &id
	}

	result, err := h.sweeper.Sweep(c.Request.Context(), time.Now(), plotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Trigger asks the background scheduler for an asynchronous full sweep
func (h *SweepHandler) Trigger(c *gin.Context) {
	if h.sweepScheduler == nil {
		h.UnprocessableEntity(c, dto.ErrCodeInvalidState, "Sweep scheduler is not enabled")
		return
	}

	if err := h.sweepScheduler.TriggerManualRun(c.Request.Context()); err != nil {
		switch err {
		case scheduler.ErrSchedulerNotRunning:
			h.UnprocessableEntity(c, dto.ErrCodeInvalidState, "Sweep scheduler is not running")
		case scheduler.ErrSweepAlreadyRunning:
			h.Conflict(c, "A sweep is already in progress")
		default:
			h.HandleDomainError(c, err)
		}
		return
	}

	h.Success(c, gin.H{"triggered": true})
}
