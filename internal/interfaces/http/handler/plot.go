package handler

import (
	estateapp "github.com/estate/backend/internal/application/estate"
	"github.com/gin-gonic/gin"
)

// PlotHandler handles plot inventory endpoints
type PlotHandler struct {
	BaseHandler
	plotService *estateapp.PlotService
}

// NewPlotHandler creates a new plot handler
func NewPlotHandler(plotService *estateapp.PlotService) *PlotHandler {
	return &PlotHandler{plotService: plotService}
}

// Register adds a new plot to a society's inventory
func (h *PlotHandler) Register(c *gin.Context) {
	var req estateapp.RegisterPlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plot, err := h.plotService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, plot)
}

// GetByID returns a plot by ID
func (h *PlotHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	plot, err := h.plotService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// GetByNumber returns a plot by its number within a society
func (h *PlotHandler) GetByNumber(c *gin.Context) {
	societyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid society ID")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Plot number is required")
		return
	}

	plot, err := h.plotService.GetByNumber(c.Request.Context(), societyID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// List returns plots matching the query
func (h *PlotHandler) List(c *gin.Context) {
	var query plotListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plots, total, err := h.plotService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, plots, total, filter.Page, filter.PageSize)
}

// ListByCustomer returns all plots owned by a customer
func (h *PlotHandler) ListByCustomer(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	plots, err := h.plotService.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plots)
}

// UpdatePrice changes a plot's listed price
func (h *PlotHandler) UpdatePrice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	var req estateapp.UpdatePlotPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plot, err := h.plotService.UpdatePrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// Hold places an administrative hold on an available plot
func (h *PlotHandler) Hold(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	plot, err := h.plotService.Hold(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// ReleaseHold lifts an administrative hold and returns the plot to the market
func (h *PlotHandler) ReleaseHold(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	plot, err := h.plotService.ReleaseHold(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// Delete removes a plot that has never been sold
func (h *PlotHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	if err := h.plotService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
