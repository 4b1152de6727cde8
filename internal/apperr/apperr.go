package apperr

import "fmt"

// Code identifies a business failure in a machine-readable way. The
// transport layer maps codes to HTTP statuses; services compare codes
// instead of matching error strings.
type Code string

const (
	// Not-found class: the caller referenced an entity that does not exist.
	CodeOrderNotFound          Code = "ORDER_NOT_FOUND"
	CodeProductVariantNotFound Code = "PRODUCT_VARIANT_NOT_FOUND"
	CodeUserProfileNotFound    Code = "USER_PROFILE_NOT_FOUND"
	CodeCartNotFound           Code = "CART_NOT_FOUND"

	// Conflict / validation class: the request is well-formed but breaks
	// a business rule.
	CodeInsufficientStock       Code = "INSUFFICIENT_STOCK"
	CodeInvalidStatusTransition Code = "INVALID_STATUS_TRANSITION"
	CodeOrderNotCancellable     Code = "ORDER_NOT_CANCELLABLE"
	CodeInvalidInput            Code = "INVALID_INPUT"
	CodeEmailAlreadyRegistered  Code = "EMAIL_ALREADY_REGISTERED"
	CodeInvalidCredentials      Code = "INVALID_CREDENTIALS"

	// External dependency class: the payment gateway failed.
	CodePaymentCreationFailed     Code = "PAYMENT_CREATION_FAILED"
	CodePaymentCancellationFailed Code = "PAYMENT_CANCELLATION_FAILED"
	CodeGatewayUnavailable        Code = "GATEWAY_UNAVAILABLE"

	CodeAccessDenied Code = "ACCESS_DENIED"
)

// Error is the single structured application error. Meta carries the
// offending identifiers (variant id, order id, ...) for logs and for
// the API error body.
type Error struct {
	Code    Code
	Message string
	Meta    map[string]any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause, preserved through Unwrap.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// With returns the error with a meta entry added. The receiver is
// mutated and returned to allow chaining at construction sites.
func (e *Error) With(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any, 2)
	}
	e.Meta[key] = value
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code, so sentinel-style checks
// like errors.Is(err, apperr.New(apperr.CodeOrderNotFound, "")) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf extracts the application code from err, walking the wrap
// chain. Returns "" for plain errors.
func CodeOf(err error) Code {
	for err != nil {
		if ae, ok := err.(*Error); ok {
			return ae.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// IsCode reports whether err carries the given application code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
