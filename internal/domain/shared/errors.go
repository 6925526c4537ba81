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

// Common domain errors. The four failure kinds callers branch on are
// validation, not-found, conflict and integrity; each error code maps to
// exactly one of them in the HTTP layer.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrDayNotOpen          = NewDomainError("DAY_NOT_OPEN", "Daily record is not open for this operation")
	ErrBatchDepleted       = NewDomainError("BATCH_DEPLETED", "Batch has no remaining quantity")
	ErrSaleAlreadyVoided   = NewDomainError("SALE_ALREADY_VOIDED", "Sale has already been voided")
)
