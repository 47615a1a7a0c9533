package models

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
	Code    string   `json:"code,omitempty"`
	Details string   `json:"details,omitempty"`
}

// AppError represents a custom application error.
// Validation errors carry the full ordered list of violation messages in
// Messages; every other kind carries a single Message.
type AppError struct {
	Code     string
	Message  string
	Messages []string
	Err      error
}

func (e *AppError) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, " ")
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:     "VALIDATION_ERROR",
		Message:  message,
		Messages: []string{message},
	}
}

// NewValidationErrors wraps an accumulated, ordered list of violation
// messages in a single validation error.
func NewValidationErrors(messages []string) *AppError {
	return &AppError{
		Code:     "VALIDATION_ERROR",
		Message:  strings.Join(messages, " "),
		Messages: messages,
	}
}

// NewAuthError returns the deliberately generic authentication failure.
// The message never distinguishes an unknown username from a wrong password.
func NewAuthError() *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: "Invalid username / password.",
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewForbiddenError is returned on ownership violations.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Please try again later.",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error:  appErr.Message,
			Errors: appErr.Messages,
			Code:   appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
