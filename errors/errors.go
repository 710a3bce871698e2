package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// Error defines a standard application error.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Wrapped underlying error.
	WrappedErr error `json:"wrapped_err,omitempty"`
}

// Error returns the string representation of the error message.
func (e *Error) Error() string {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(e)
	return buf.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.WrappedErr
}

// NewError returns standard go error with given string
func NewError(e string) error {
	return errors.New(e)
}

// Kind defines the kind or class of an error.
type Kind uint8

// Transport agnostic error "kinds"
const (
	Other        Kind = iota // Unclassified error
	Internal                 // Internal error
	Conflict                 // Conflict when an entity already exists
	Invalid                  // Invalid input, validation error etc
	NotFound                 // Entity does not exist
	Unauthorized             // Unauthorized access
	Forbidden                // Forbidden access
	Unavailable              // Upstream dependency unreachable or failing
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "unclassified error"
	case Internal:
		return "internal error"
	case Conflict:
		return "conflict"
	case Invalid:
		return "invalid input"
	case NotFound:
		return "entity not found"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Unavailable:
		return "upstream unavailable"
	default:
		return "unknown error kind"
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// E builds an *Error from any combination of Kind, message and wrapped error.
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.WrappedErr = arg
		case string:
			e.Message = arg
		}
	}
	return e
}

// KindOf returns the Kind of err, or Other for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// MessageOf returns the client-facing message of err. Plain errors map to a
// generic message so internals never leak to the client.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error kind to its transport status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Invalid:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Unavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(msg string) error {
	return E(Internal, msg)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string) error {
	return E(NotFound, msg)
}

// NewInvalidParamsError creates a new invalid parameters error
func NewInvalidParamsError(msg string) error {
	return E(Invalid, msg)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(msg string) error {
	return E(Unauthorized, msg)
}

// NewConflictError creates a new conflict error
func NewConflictError(msg string) error {
	return E(Conflict, msg)
}

// NewUnavailableError creates a new upstream-unavailable error
func NewUnavailableError(msg string) error {
	return E(Unavailable, msg)
}

var (
	As = errors.As
	Is = errors.Is
)
