package handler

import (
	bookingapp "github.com/estate/backend/internal/application/booking"
	"github.com/gin-gonic/gin"
)

// BookingHandler handles plot booking endpoints
type BookingHandler struct {
	BaseHandler
	bookingService *bookingapp.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *bookingapp.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create books a plot for a customer and generates the installment schedule
func (h *BookingHandler) Create(c *gin.Context) {
	var req bookingapp.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID returns a booking by ID
func (h *BookingHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	booking, err := h.bookingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, booking)
}

// GetByNumber returns a booking by its booking number
func (h *BookingHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Booking number is required")
		return
	}

	booking, err := h.bookingService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, booking)
}

// List returns bookings matching the query
func (h *BookingHandler) List(c *gin.Context) {
	var query bookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, bookings, total, filter.Page, filter.PageSize)
}

// GetSchedule returns the installment schedule for a booking
func (h *BookingHandler) GetSchedule(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	schedule, err := h.bookingService.GetSchedule(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, schedule)
}

// ListInstallmentsByCustomer returns a customer's installments
func (h *BookingHandler) ListInstallmentsByCustomer(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var query installmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	installments, err := h.bookingService.ListInstallmentsByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, installments)
}

// ListInstallmentsByPlot returns the installments recorded against a plot
func (h *BookingHandler) ListInstallmentsByPlot(c *gin.Context) {
	plotID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	var query installmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	installments, err := h.bookingService.ListInstallmentsByPlot(c.Request.Context(), plotID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, installments)
}

// PlotBalance returns the outstanding balance for a plot's active booking
func (h *BookingHandler) PlotBalance(c *gin.Context) {
	plotID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	balance, err := h.bookingService.PlotBalance(c.Request.Context(), plotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}
