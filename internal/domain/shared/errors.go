package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConflict            = NewDomainError("CONFLICT", "Resource is already claimed")
	ErrDuplicate           = NewDomainError("DUPLICATE", "A matching record already exists")
	ErrInvalidTransition   = NewDomainError("INVALID_TRANSITION", "State transition is not allowed")
	ErrAlreadySettled      = NewDomainError("ALREADY_SETTLED", "Installment is already fully paid")
	ErrSameParty           = NewDomainError("SAME_PARTY", "Previous and new owner must differ")
	ErrInvalidTerm         = NewDomainError("INVALID_TERM", "Installment term must be a positive number of years")
	ErrInvalidPayment      = NewDomainError("INVALID_PAYMENT", "Payment amount is not valid for this operation")
	ErrStorageFailure      = NewDomainError("STORAGE_FAILURE", "Persistent store rejected the operation")
)
