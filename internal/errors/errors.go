// Package errors provides custom error types for the networth API.
// All service-layer errors should use AppError so responses stay
// consistent and never leak internal details to clients. Cross-owner
// access deliberately maps to the entity's not-found sentinel so a
// caller cannot probe for other users' records.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail  = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrInvalidCode     = &AppError{Code: "INVALID_CODE", Message: "Verification code is invalid", StatusCode: http.StatusBadRequest}
	ErrAlreadyVerified = &AppError{Code: "ALREADY_VERIFIED", Message: "Already verified", StatusCode: http.StatusConflict}
)

// Asset group errors.
var (
	ErrGroupNotFound      = &AppError{Code: "GROUP_NOT_FOUND", Message: "Asset group not found", StatusCode: http.StatusNotFound}
	ErrGroupProtected     = &AppError{Code: "GROUP_PROTECTED", Message: "Changes to default asset groups are not allowed", StatusCode: http.StatusForbidden}
	ErrGroupCycle         = &AppError{Code: "GROUP_CYCLE", Message: "An asset group cannot be moved under one of its own sub-groups", StatusCode: http.StatusConflict}
	ErrDuplicateGroupName = &AppError{Code: "DUPLICATE_GROUP_NAME", Message: "An asset group with this name already exists", StatusCode: http.StatusConflict}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
)

// Asset and liability errors.
var (
	ErrSecurityNotFound   = &AppError{Code: "SECURITY_NOT_FOUND", Message: "Security not found", StatusCode: http.StatusNotFound}
	ErrCryptoNotFound     = &AppError{Code: "CRYPTO_NOT_FOUND", Message: "Crypto holding not found", StatusCode: http.StatusNotFound}
	ErrOtherAssetNotFound = &AppError{Code: "OTHER_ASSET_NOT_FOUND", Message: "Other asset not found", StatusCode: http.StatusNotFound}
	ErrLiabilityNotFound  = &AppError{Code: "LIABILITY_NOT_FOUND", Message: "Liability not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidLinkage      = &AppError{Code: "INVALID_LINKAGE", Message: "A transaction must be linked to exactly one security, other asset, or liability", StatusCode: http.StatusBadRequest}
)

// Provider errors.
var (
	ErrProviderNotLinked = &AppError{Code: "PROVIDER_NOT_LINKED", Message: "No linked connection for this provider", StatusCode: http.StatusConflict}
	ErrProviderFailure   = &AppError{Code: "PROVIDER_FAILURE", Message: "The financial data provider returned an error", StatusCode: http.StatusBadGateway}
)
