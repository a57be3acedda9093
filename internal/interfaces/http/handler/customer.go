package handler

import (
	partnerapp "github.com/estate/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer registry endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Register creates a new customer
func (h *CustomerHandler) Register(c *gin.Context) {
	var req partnerapp.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID returns a customer by ID
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customer)
}

// GetByCNIC returns a customer by national identity card number
func (h *CustomerHandler) GetByCNIC(c *gin.Context) {
	cnic := c.Param("cnic")
	if cnic == "" {
		h.BadRequest(c, "CNIC is required")
		return
	}

	customer, err := h.customerService.GetByCNIC(c.Request.Context(), cnic)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customer)
}

// List returns customers matching the query
func (h *CustomerHandler) List(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := query.toFilter()
	if cnic := c.Query("cnic"); cnic != "" {
		filter.Filters["cnic"] = cnic
	}
	if societyID, err := societyScope(c); err == nil && societyID != nil {
		filter.Filters["society_id"] = *societyID
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// ListBySociety returns customers holding plots in a society
func (h *CustomerHandler) ListBySociety(c *gin.Context) {
	societyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid society ID")
		return
	}

	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customers, err := h.customerService.ListBySociety(c.Request.Context(), societyID, query.toFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customers)
}

// Update updates a customer's details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete removes a customer with no plot holdings
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
