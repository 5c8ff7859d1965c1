package internal

import "errors"

// AppError is the error shape surfaced in API responses.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) Error() string {
	return e.Message
}

// Lifecycle precondition violations. These indicate caller bugs (the UI
// is expected to prevent them), not recoverable conditions.
var (
	ErrFastNotFound      = errors.New("fast not found")
	ErrFastAlreadyActive = errors.New("a fast is already active")
	ErrFastNotActive     = errors.New("fast is not active")
	ErrFastNotCompleted  = errors.New("fast is not completed")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProtocolNotFound  = errors.New("protocol not found")
)
