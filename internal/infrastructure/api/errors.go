package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Kind classifies an access-layer failure.
type Kind string

const (
	// KindNetwork: the request never produced a response (DNS, refused
	// connection, timeout).
	KindNetwork Kind = "network"
	// KindAPI: the server responded with a structured failure envelope.
	KindAPI Kind = "api"
	// KindAuth: 401-class rejection; triggers forced session teardown.
	KindAuth Kind = "auth"
	// KindValidation: 422-class rejection carrying field-level details.
	KindValidation Kind = "validation"
	// KindUnknown: anything that fits none of the above.
	KindUnknown Kind = "unknown"
)

// Error is the only error type the access layer returns. Layers above it
// convert Errors into OpResult values and never re-raise them.
type Error struct {
	Kind    Kind
	Status  int // HTTP status; 0 when no response was received
	Code    string
	Message string
	Details map[string]any // field errors on validation failures
	cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// UserMessage and ErrorCode let the core fold Errors into result values
// without importing this package.

func (e *Error) UserMessage() string { return e.Message }

func (e *Error) ErrorCode() string { return e.Code }

// ErrorKind extracts the Kind from any error, defaulting to KindUnknown.
func ErrorKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// IsAuth reports whether err is a 401-class rejection.
func IsAuth(err error) bool { return ErrorKind(err) == KindAuth }

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool { return ErrorKind(err) == KindNetwork }

// networkError wraps a transport failure that produced no response.
func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Code:    "NETWORK_ERROR",
		Message: "connection error - check your network",
		cause:   err,
	}
}

// unknownError wraps a client-side failure (bad URL, encoding, ...).
func unknownError(err error) *Error {
	return &Error{
		Kind:    KindUnknown,
		Code:    "UNKNOWN_ERROR",
		Message: err.Error(),
		cause:   err,
	}
}

// failureEnvelope is the backend's error body. Older endpoints use "detail",
// newer ones "message"; validation failures report fields under "errors" or
// "validation_errors".
type failureEnvelope struct {
	Message          string         `json:"message"`
	Detail           string         `json:"detail"`
	Code             string         `json:"code"`
	Details          map[string]any `json:"details"`
	Errors           map[string]any `json:"errors"`
	ValidationErrors map[string]any `json:"validation_errors"`
}

// decodeFailure normalizes a non-2xx response into an *Error with a
// deterministic message per status, mirroring the backend's envelope when it
// provides one.
func decodeFailure(status int, body []byte) *Error {
	var env failureEnvelope
	_ = json.Unmarshal(body, &env)

	msg := env.Message
	if msg == "" {
		msg = env.Detail
	}
	code := env.Code
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", status)
	}

	e := &Error{Kind: KindAPI, Status: status, Code: code, Details: env.Details}

	switch status {
	case http.StatusBadRequest:
		e.Message = orDefault(msg, "invalid request data")
	case http.StatusUnauthorized:
		e.Kind = KindAuth
		e.Message = "not authorized - sign in again"
	case http.StatusForbidden:
		e.Message = "access denied - insufficient permissions"
	case http.StatusNotFound:
		e.Message = "resource not found"
	case http.StatusConflict:
		e.Message = orDefault(msg, "data conflict")
	case http.StatusUnprocessableEntity:
		e.Kind = KindValidation
		e.Message = orDefault(msg, "invalid data")
		if env.Errors != nil {
			e.Details = env.Errors
		} else if env.ValidationErrors != nil {
			e.Details = env.ValidationErrors
		}
	case http.StatusTooManyRequests:
		e.Message = "too many requests - try again in a few minutes"
	case http.StatusInternalServerError:
		e.Message = "internal server error"
	case http.StatusBadGateway:
		e.Message = "server unavailable"
	case http.StatusServiceUnavailable:
		e.Message = "service temporarily unavailable"
	default:
		e.Message = orDefault(msg, fmt.Sprintf("request failed with status %d", status))
	}

	return e
}

// envelopeError builds the error for a 2xx response whose body carries
// {"success": false}.
func envelopeError(message string) *Error {
	return &Error{
		Kind:    KindAPI,
		Code:    "OPERATION_FAILED",
		Message: orDefault(message, "operation failed"),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
