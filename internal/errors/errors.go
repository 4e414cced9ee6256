package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized = "UNAUTHORIZED"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeImportFailed = "IMPORT_FAILED"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response carrying code and details
func BadRequestWithDetails(c *gin.Context, code, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(code, message, details))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// Kind classifies a domain error for the HTTP boundary
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindConflict
	KindForbidden
	KindUnauthorized
)

// DomainError is returned by services for failures the client can act on
type DomainError struct {
	Kind Kind
	// Code overrides the response code derived from Kind
	Code    string
	Message string
	Details interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewNotFound(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewValidation(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewImportFailed is a validation error for a rejected import batch.
// findings lists every row-level problem.
func NewImportFailed(message string, findings []string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: ErrCodeImportFailed, Message: message, Details: findings}
}

func NewConflict(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorized(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err wraps a DomainError of the given kind
func IsKind(err error, kind Kind) bool {
	var de *DomainError
	return stderrors.As(err, &de) && de.Kind == kind
}

var log = zap.NewNop()

// SetLogger sets the logger used for unexpected errors
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Respond converts err into the matching HTTP error response.
// Anything that is not a DomainError is logged and reported as a generic 500.
func Respond(c *gin.Context, err error) {
	var de *DomainError
	if !stderrors.As(err, &de) {
		log.Error("unexpected error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		InternalError(c, "")
		return
	}

	switch de.Kind {
	case KindNotFound:
		NotFound(c, de.Message)
	case KindValidation:
		if de.Code != "" || de.Details != nil {
			code := de.Code
			if code == "" {
				code = ErrCodeInvalidInput
			}
			BadRequestWithDetails(c, code, de.Message, de.Details)
			return
		}
		BadRequest(c, de.Message)
	case KindConflict:
		Conflict(c, de.Message)
	case KindForbidden:
		Forbidden(c, de.Message)
	case KindUnauthorized:
		Unauthorized(c, de.Message)
	default:
		InternalError(c, "")
	}
}
