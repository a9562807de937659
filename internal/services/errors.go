package services

// ErrorCode classifies service failures so the HTTP layer can map each one
// to a single status without inspecting messages.
type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
)

// FieldError points a validation failure at a specific request field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ServiceError is the error type returned by every service method for
// expected failures. Anything else reaching the HTTP layer is a 500.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Details []FieldError
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string, details ...FieldError) error {
	return &ServiceError{Code: ErrorInvalid, Message: msg, Details: details}
}

func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &ServiceError{Code: ErrorForbidden, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: ErrorNotFound, Message: msg}
}

func NewConflictError(msg string, details ...FieldError) error {
	return &ServiceError{Code: ErrorConflict, Message: msg, Details: details}
}
