package domain

import "fmt"

// DomainError carries a machine-readable code alongside the message. The
// HTTP layer maps codes to status codes, so services never import net/http.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeTenantMismatch   = "TENANT_MISMATCH"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrInvalidChunkSourceType   = NewDomainError(ErrCodeValidation, "invalid chunk source type")
	ErrInvalidRatingValue       = NewDomainError(ErrCodeValidation, "rating must be between 1 and 5")
	ErrInvalidEmbeddingJobState = NewDomainError(ErrCodeValidation, "invalid embedding job status")
	ErrMissingRequiredField     = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrTenantNotFound       = NewDomainError(ErrCodeNotFound, "tenant not found")
	ErrCustomerNotFound     = NewDomainError(ErrCodeNotFound, "customer not found")
	ErrConversationNotFound = NewDomainError(ErrCodeNotFound, "conversation not found")
	ErrProductNotFound      = NewDomainError(ErrCodeNotFound, "product not found")
	ErrDocumentNotFound     = NewDomainError(ErrCodeNotFound, "document not found")
	ErrRatingNotFound       = NewDomainError(ErrCodeNotFound, "csat rating not found")
	ErrAPIKeyNotFound       = NewDomainError(ErrCodeNotFound, "api key not found")
)

// Already exists errors
var (
	ErrTenantAlreadyExists  = NewDomainError(ErrCodeAlreadyExists, "tenant already exists")
	ErrRatingAlreadyExists  = NewDomainError(ErrCodeAlreadyExists, "csat rating already submitted for this conversation")
	ErrProductAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "product with this sku already exists")
)

// Authorization errors
var (
	ErrAPIKeyRevoked = NewDomainError(ErrCodeUnauthorized, "api key has been revoked")
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)

// Tenant isolation errors. A mismatch inside the deletion transaction must
// abort the transaction and leave all rows intact.
var (
	ErrRatingTenantMismatch   = NewDomainError(ErrCodeTenantMismatch, "conversation belongs to a different tenant")
	ErrCustomerTenantMismatch = NewDomainError(ErrCodeTenantMismatch, "customer belongs to a different tenant")
)
