package errors

import (
	stderrors "errors"
	"net/http"
)

// Trust and authorization error types surfaced to downstream integrations.
// Every one of these is recovered at the service boundary into a structured
// {error, error_description} payload; none may escape as an unhandled fault.
const (
	ErrorTypeInvalidClient      ErrorType = "invalid_client"
	ErrorTypeInvalidToken       ErrorType = "invalid_token"
	ErrorTypeTokenExpired       ErrorType = "token_expired"
	ErrorTypeTokenRevoked       ErrorType = "token_revoked"
	ErrorTypeResourceUnknown    ErrorType = "resource_unknown"
	ErrorTypeStorageUnavailable ErrorType = "storage_unavailable"
	ErrorTypeKeySetUnavailable  ErrorType = "keyset_unavailable"
)

// TrustError represents a failure in the token trust or permission
// resolution path. Retryable marks the two transient kinds
// (storage_unavailable, keyset_unavailable); everything else is terminal
// for the presented token or request.
type TrustError struct {
	*AppError
	Retryable bool
}

// Error implements the error interface
func (e *TrustError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *TrustError) Unwrap() error {
	return e.AppError
}

// NewInvalidClientError creates an error for unknown or mis-authenticated clients
func NewInvalidClientError(details ...string) *TrustError {
	return newTrustError(ErrorTypeInvalidClient, "Client authentication failed", http.StatusUnauthorized, false, details...)
}

// NewInvalidTokenError creates an error for malformed or unverifiable tokens
func NewInvalidTokenError(details ...string) *TrustError {
	return newTrustError(ErrorTypeInvalidToken, "Token is invalid", http.StatusUnauthorized, false, details...)
}

// NewTokenExpiredError creates an error for tokens past their exp claim
func NewTokenExpiredError(details ...string) *TrustError {
	return newTrustError(ErrorTypeTokenExpired, "Token has expired", http.StatusUnauthorized, false, details...)
}

// NewTokenRevokedError creates an error for tokens present in the revocation registry
func NewTokenRevokedError(details ...string) *TrustError {
	return newTrustError(ErrorTypeTokenRevoked, "Token has been revoked", http.StatusUnauthorized, false, details...)
}

// NewResourceUnknownError creates an error for resource codes absent from the tree.
// Distinct from "zero permissions": the operator remediation paths differ.
func NewResourceUnknownError(details ...string) *TrustError {
	return newTrustError(ErrorTypeResourceUnknown, "Resource is not registered", http.StatusNotFound, false, details...)
}

// NewStorageUnavailableError creates a retryable error for registry or tree read failures
func NewStorageUnavailableError(details ...string) *TrustError {
	return newTrustError(ErrorTypeStorageUnavailable, "Storage is temporarily unavailable", http.StatusServiceUnavailable, true, details...)
}

// NewKeySetUnavailableError creates a retryable error for signing-key fetch failures
func NewKeySetUnavailableError(details ...string) *TrustError {
	return newTrustError(ErrorTypeKeySetUnavailable, "Signing key set is unavailable", http.StatusServiceUnavailable, true, details...)
}

func newTrustError(typ ErrorType, message string, code int, retryable bool, details ...string) *TrustError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &TrustError{
		AppError: &AppError{
			Type:    typ,
			Message: message,
			Code:    code,
			Details: detail,
		},
		Retryable: retryable,
	}
}

// IsTrustError checks if the error is a TrustError (supports wrapped errors via errors.As)
func IsTrustError(err error) bool {
	var trustErr *TrustError
	return stderrors.As(err, &trustErr)
}

// GetTrustError extracts TrustError from the error chain
func GetTrustError(err error) *TrustError {
	var trustErr *TrustError
	if stderrors.As(err, &trustErr) {
		return trustErr
	}
	return nil
}

// IsRetryable reports whether the caller may usefully retry the request
func IsRetryable(err error) bool {
	if trustErr := GetTrustError(err); trustErr != nil {
		return trustErr.Retryable
	}
	return false
}
