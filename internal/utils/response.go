// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ismaelcabanas/home-inventory-backend/internal/apperrors"
	"github.com/ismaelcabanas/home-inventory-backend/internal/ocr"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errors)
}

// MapDomainError translates the error taxonomy into HTTP responses. The
// human-readable message is the wrapped chain; internal detail stays in logs.
func MapDomainError(c *gin.Context, err error) {
	var perr *ocr.ProviderError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		NotFoundResponse(c, err.Error())
	case errors.Is(err, apperrors.ErrImmutableField):
		ErrorResponse(c, http.StatusUnprocessableEntity, "IMMUTABLE_FIELD", err.Error(), nil)
	case errors.Is(err, apperrors.ErrInvalidValue):
		ErrorResponse(c, http.StatusUnprocessableEntity, "INVALID_VALUE", err.Error(), nil)
	case errors.Is(err, apperrors.ErrValidation):
		BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, apperrors.ErrCommit):
		ErrorResponse(c, http.StatusConflict, "COMMIT_FAILED", err.Error(), nil)
	case errors.Is(err, apperrors.ErrOffline):
		ErrorResponse(c, http.StatusServiceUnavailable, "OFFLINE", err.Error(), nil)
	case errors.As(err, &perr):
		ErrorResponse(c, http.StatusBadGateway, "PROVIDER_ERROR", perr.Message, gin.H{"class": perr.Class})
	default:
		InternalErrorResponse(c, "")
	}
}
