package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"senstosales/internal/domain"
	"senstosales/internal/logger"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

var kindStatus = map[domain.Kind]int{
	domain.KindInvalidInput:          http.StatusBadRequest,
	domain.KindNotFound:              http.StatusNotFound,
	domain.KindConflict:              http.StatusConflict,
	domain.KindBusinessRuleViolation: http.StatusUnprocessableEntity,
	domain.KindForbidden:             http.StatusForbidden,
	domain.KindInternal:              http.StatusInternalServerError,
}

// MapDomainError translates a classified error to an HTTP status and body.
// Internal causes never reach the client.
func MapDomainError(err error) (status int, apiErr *APIError) {
	kind := domain.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok || kind == domain.KindInternal {
		return http.StatusInternalServerError, &APIError{Code: string(domain.KindInternal), Message: "an internal error occurred"}
	}

	apiErr = &APIError{Code: string(kind), Message: err.Error()}
	var de *domain.Error
	if errors.As(err, &de) {
		apiErr.Message = de.Message
		apiErr.Details = de.Details
	}
	return status, apiErr
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, apiErr := MapDomainError(err)
	if status >= 500 {
		logger.FromContext(c.Request.Context()).Error("internal error",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.KindInvalidInput), err.Error())
		return false
	}
	return true
}
