package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Details       string `json:"details"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidPrice  = "INVALID_PRICE"
	ErrCodeInvalidID     = "INVALID_ID"
	ErrCodeInvalidField  = "INVALID_FIELD"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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
	ErrMissingFields = NewDomainError(ErrCodeMissingField, "name, price et category sont requis")
	ErrInvalidPrice  = NewDomainError(ErrCodeInvalidPrice, "Le prix doit être un nombre")
	ErrNegativePrice = NewDomainError(ErrCodeInvalidPrice, "Le prix doit être un nombre positif")
	ErrInvalidID     = NewDomainError(ErrCodeInvalidID, "identifiant de produit invalide")
	ErrInvalidJSON   = NewDomainError(ErrCodeInvalidJSON, "corps de requête JSON invalide")

	ErrPriceTooHigh    = NewDomainError(ErrCodeInvalidPrice, "Le prix doit être inférieur à 100000000")
	ErrNameTooLong     = NewDomainError(ErrCodeInvalidField, "Le nom ne doit pas dépasser 255 caractères")
	ErrCategoryTooLong = NewDomainError(ErrCodeInvalidField, "La catégorie ne doit pas dépasser 100 caractères")
)

// IsDomainError reports whether err wraps a *DomainError and returns it.
func IsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
