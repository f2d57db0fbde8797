package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// errVendorCredentials marks a vendor-scoped configuration failure in logs.
// Payers see the same envelope as ErrConfigMissing; tenant configuration
// state must not leak through the public surface.
var errVendorCredentials = errors.New("vendor gateway credentials missing or incomplete")

// ---- Configuration & Routing (CFG) ----

// ErrConfigMissing signals that the platform-default gateway credential pair
// is absent. Fatal for platform-routed requests.
func ErrConfigMissing() *AppError {
	return New("CFG_001", "Payment service unavailable", http.StatusServiceUnavailable)
}

// ErrVendorCredentialsIncomplete signals that a vendor-owned link resolved
// but the vendor's credential pair is missing or partial. Shares the public
// code and message with ErrConfigMissing on purpose.
func ErrVendorCredentialsIncomplete() *AppError {
	return Wrap("CFG_001", "Payment service unavailable", http.StatusServiceUnavailable, errVendorCredentials)
}

// IsVendorCredentialsIncomplete reports whether err carries the vendor
// credential marker. Used by logging, never by response mapping.
func IsVendorCredentialsIncomplete(err error) bool {
	return errors.Is(err, errVendorCredentials)
}

// ---- Payment Links (LNK) ----

func ErrInvalidLink() *AppError {
	return New("LNK_001", "Payment link invalid or expired", http.StatusNotFound)
}

func ErrGenerationExhausted() *AppError {
	return New("LNK_002", "Could not allocate a link code, please retry", http.StatusServiceUnavailable)
}

// ErrInstrumentNotFound signals a poll for an instrument the tracker does
// not know, either never created or already pruned.
func ErrInstrumentNotFound() *AppError {
	return New("LNK_003", "Payment instrument not found", http.StatusNotFound)
}

// ---- Upstream Gateway (GWY) ----

// ErrGatewayRejected wraps a non-success upstream status. The upstream body
// stays inside the wrapped error for diagnostics and is never shown to payers.
func ErrGatewayRejected(status int, body string) *AppError {
	return Wrap("GWY_001", "Payment could not be generated, please try again",
		http.StatusBadGateway, fmt.Errorf("gateway returned status %d: %s", status, body))
}

// ErrMalformedGatewayResponse signals a success status with an unusable body.
// Same payer-facing treatment as ErrGatewayRejected, logged at higher
// severity since it indicates upstream contract drift.
func ErrMalformedGatewayResponse(err error) *AppError {
	return Wrap("GWY_002", "Payment could not be generated, please try again",
		http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Validation (VAL) ----

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
