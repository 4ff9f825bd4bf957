package errx

import (
	"fmt"
	"net/http"
)

// Type classifies an error for transport mapping and logging.
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeExternal      Type = "EXTERNAL"
	TypeInternal      Type = "INTERNAL"
)

// ErrorCode is a registered, namespaced error code like "VACANCY_NOT_FOUND".
type ErrorCode string

// Error is the error type used across the application. It carries a
// registered code, a type for classification, an HTTP status for the API
// layer and optional structured details.
type Error struct {
	Code       ErrorCode      `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// WithDetail attaches a single key/value detail.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails attaches multiple details at once.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// HTTPResponse is the JSON body returned to API clients.
type HTTPResponse struct {
	Error   bool           `json:"error"`
	Type    Type           `json:"type"`
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToHTTPResponse builds the API response body for this error. The cause is
// never exposed to clients.
func (e *Error) ToHTTPResponse() HTTPResponse {
	return HTTPResponse{
		Error:   true,
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// registered holds the static definition behind an ErrorCode.
type registered struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry namespaces error codes per domain package. Each domain declares
// its own registry with a short prefix ("VACANCY", "TASK", ...).
type Registry struct {
	prefix string
	codes  map[ErrorCode]registered
}

// NewRegistry creates a registry with the given code prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[ErrorCode]registered),
	}
}

// Register declares a new error code under the registry prefix and returns
// the full code. Registration happens in package var blocks at init time,
// so duplicate registration is a programming error and panics.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) ErrorCode {
	full := ErrorCode(r.prefix + "_" + code)
	if _, exists := r.codes[full]; exists {
		panic(fmt.Sprintf("errx: duplicate error code %q", full))
	}
	r.codes[full] = registered{errType: t, httpStatus: httpStatus, message: message}
	return full
}

// New builds a fresh Error for a registered code.
func (r *Registry) New(code ErrorCode) *Error {
	def, ok := r.codes[code]
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Code:       code,
		Type:       def.errType,
		Message:    def.message,
		HTTPStatus: def.httpStatus,
	}
}

// NewWithCause builds a fresh Error for a registered code with a cause.
func (r *Registry) NewWithCause(code ErrorCode, cause error) *Error {
	return r.New(code).WithCause(cause)
}

// Wrap converts an arbitrary error into an *Error of the given type. If err
// is already an *Error it is returned unchanged so the original code and
// status survive layer boundaries.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{
		Code:       ErrorCode("WRAPPED_" + string(t)),
		Type:       t,
		Message:    message,
		HTTPStatus: httpStatusForType(t),
		cause:      err,
	}
}

func httpStatusForType(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
