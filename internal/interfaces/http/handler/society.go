package handler

import (
	estateapp "github.com/estate/backend/internal/application/estate"
	"github.com/gin-gonic/gin"
)

// SocietyHandler handles housing society endpoints
type SocietyHandler struct {
	BaseHandler
	societyService *estateapp.SocietyService
}

// NewSocietyHandler creates a new society handler
func NewSocietyHandler(societyService *estateapp.SocietyService) *SocietyHandler {
	return &SocietyHandler{societyService: societyService}
}

// Create registers a new housing society
func (h *SocietyHandler) Create(c *gin.Context) {
	var req estateapp.CreateSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	society, err := h.societyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, society)
}

// GetByID returns a society by ID
func (h *SocietyHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid society ID")
		return
	}

	society, err := h.societyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, society)
}

// List returns societies matching the query
func (h *SocietyHandler) List(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := query.toFilter()
	if location := c.Query("location"); location != "" {
		filter.Filters["location"] = location
	}

	societies, total, err := h.societyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, societies, total, filter.Page, filter.PageSize)
}

// Update updates a society's details
func (h *SocietyHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid society ID")
		return
	}

	var req estateapp.UpdateSocietyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	society, err := h.societyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, society)
}

// Delete removes a society
func (h *SocietyHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid society ID")
		return
	}

	if err := h.societyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
