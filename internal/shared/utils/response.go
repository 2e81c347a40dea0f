package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ListResponse represents a paginated list response
type ListResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// CreatedResponse sends a created response
func CreatedResponse(c *gin.Context, data any, message ...string) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: "Resource created successfully",
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusCreated, response)
}

// ErrorResponse sends an error response with the given status and message
func ErrorResponse(c *gin.Context, statusCode int, message string, details ...string) {
	info := &ErrorInfo{
		Type:    "error",
		Message: message,
	}
	if len(details) > 0 {
		info.Details = details[0]
	}
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   info,
	})
}

// AppErrorResponse maps an application error onto the response envelope.
// Unrecognized errors degrade to an opaque internal error so that no
// internal detail crosses the boundary.
func AppErrorResponse(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		c.JSON(appErr.Code, APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Type:    string(appErr.Type),
				Message: appErr.Message,
				Details: appErr.Details,
			},
		})
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "internal error")
}
