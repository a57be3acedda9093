package handler

import (
	ledgerapp "github.com/estate/backend/internal/application/ledger"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles payment and financial ledger endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService     *ledgerapp.LedgerService
	idempotency       shared.IdempotencyStore
	idempotencyConfig shared.IdempotencyConfig
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *ledgerapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:     ledgerService,
		idempotencyConfig: shared.DefaultIdempotencyConfig(),
	}
}

// WithIdempotencyStore enables duplicate suppression for payment
// submissions that carry an Idempotency-Key header.
func (h *LedgerHandler) WithIdempotencyStore(store shared.IdempotencyStore) *LedgerHandler {
	h.idempotency = store
	return h
}

// replayedPayment reports whether the request's Idempotency-Key was
// already consumed by a successful payment. Keys are recorded only
// after a payment succeeds, so a failed attempt can be retried with
// the same key.
func (h *LedgerHandler) replayedPayment(c *gin.Context) (string, bool) {
	key := c.GetHeader("Idempotency-Key")
	if key == "" || h.idempotency == nil {
		return "", false
	}
	seen, err := h.idempotency.IsProcessed(c.Request.Context(), "payment:"+key)
	if err != nil {
		return key, false
	}
	return key, seen
}

func (h *LedgerHandler) recordPaymentKey(c *gin.Context, key string) {
	if key == "" || h.idempotency == nil {
		return
	}
	// Best effort, a lost key only means a replay gets re-applied
	_, _ = h.idempotency.MarkProcessed(c.Request.Context(), "payment:"+key, h.idempotencyConfig.TTL)
}

// ApplyPayment applies a payment against a booking's open installments.
// Clients retrying a submission should send the same Idempotency-Key so
// the payment is not applied twice.
func (h *LedgerHandler) ApplyPayment(c *gin.Context) {
	var req ledgerapp.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	key, replayed := h.replayedPayment(c)
	if replayed {
		h.Conflict(c, "A payment with this idempotency key was already submitted")
		return
	}

	result, err := h.ledgerService.ApplyPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.recordPaymentKey(c, key)
	h.Success(c, result)
}

// ApplyInstallmentPayment applies a payment against one installment,
// with overflow cascading into the later installments of its booking.
func (h *LedgerHandler) ApplyInstallmentPayment(c *gin.Context) {
	installmentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	var req ledgerapp.ApplyInstallmentPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.InstallmentID = installmentID

	key, replayed := h.replayedPayment(c)
	if replayed {
		h.Conflict(c, "A payment with this idempotency key was already submitted")
		return
	}

	result, err := h.ledgerService.ApplyPaymentToInstallment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.recordPaymentKey(c, key)
	h.Success(c, result)
}

// RecordTransaction appends a standalone transaction to the ledger
func (h *LedgerHandler) RecordTransaction(c *gin.Context) {
	var req ledgerapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Attribute the entry to the authenticated user when the caller
	// does not name an employee explicitly.
	if req.EmployeeID == nil {
		if userID, err := getUserID(c); err == nil {
			req.EmployeeID = &userID
		}
	}

	transaction, err := h.ledgerService.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transaction)
}

// GetByID returns a ledger entry by ID
func (h *LedgerHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.ledgerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transaction)
}

// List returns ledger entries matching the query
func (h *LedgerHandler) List(c *gin.Context) {
	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactions, total, err := h.ledgerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// ListByBooking returns every ledger entry attributed to a booking
func (h *LedgerHandler) ListByBooking(c *gin.Context) {
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	transactions, err := h.ledgerService.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transactions)
}

// Summarize returns income and expense totals for the query
func (h *LedgerHandler) Summarize(c *gin.Context) {
	var query transactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.ledgerService.Summarize(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
