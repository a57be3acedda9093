package handler

import (
	ownershipapp "github.com/estate/backend/internal/application/ownership"
	"github.com/gin-gonic/gin"
)

// OwnershipHandler handles resell and transfer endpoints
type OwnershipHandler struct {
	BaseHandler
	ownershipService *ownershipapp.OwnershipService
}

// NewOwnershipHandler creates a new ownership handler
func NewOwnershipHandler(ownershipService *ownershipapp.OwnershipService) *OwnershipHandler {
	return &OwnershipHandler{ownershipService: ownershipService}
}

// Resell moves a sold plot from one customer to another
func (h *OwnershipHandler) Resell(c *gin.Context) {
	var req ownershipapp.ResellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ownershipService.Resell(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Transfer records an ownership transfer onto a plot
func (h *OwnershipHandler) Transfer(c *gin.Context) {
	var req ownershipapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ownershipService.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListResells returns the resell history for a plot
func (h *OwnershipHandler) ListResells(c *gin.Context) {
	plotID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	resells, err := h.ownershipService.ListResells(c.Request.Context(), plotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resells)
}

// ListTransfers returns the transfer history for a plot
func (h *OwnershipHandler) ListTransfers(c *gin.Context) {
	plotID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	transfers, err := h.ownershipService.ListTransfers(c.Request.Context(), plotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfers)
}
