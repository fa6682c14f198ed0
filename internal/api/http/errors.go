package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/todo-list-api/todo-list-api/internal/todos/validation"
)

// Error kinds carried in the "error" field of every failure response.
const (
	ErrKindInvalidBody     = "invalid_body"
	ErrKindNotFound        = "not_found"
	ErrKindPayloadTooLarge = "payload_too_large"
	ErrKindRateLimited     = "rate_limited"
	ErrKindInternal        = "internal_error"
)

type ErrorResponse struct {
	Error  string             `json:"error"`
	Issues []validation.Issue `json:"issues,omitempty"`
}

func InvalidBody(c *gin.Context, issues []validation.Issue) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: ErrKindInvalidBody, Issues: issues})
}

func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: ErrKindNotFound})
}

func PayloadTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrKindPayloadTooLarge})
}

func RateLimited(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: ErrKindRateLimited})
}

func Internal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: ErrKindInternal})
}
