package util

import (
	"net/http"
	"readiness_backend/pkg/logger"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Submission error codes surfaced to clients.
const (
	CodeRateLimited   = "rate_limited"
	CodeInvalidJSON   = "invalid_json"
	CodeCaptchaFailed = "captcha_failed"
	CodeDatabaseError = "database_error"
	CodeInternalError = "internal_error"
)

// SubmissionError is the submit endpoint's failure envelope.
type SubmissionError struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Message    string            `json:"message,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	RetryAfter int               `json:"retryAfter,omitempty"`
}

func SubmissionFailure(c *gin.Context, status int, code, message string) {
	c.JSON(status, SubmissionError{Success: false, Error: code, Message: message})
}

func ValidationFailure(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, SubmissionError{Success: false, Errors: errors})
}

func RateLimited(c *gin.Context, retryAfter int, message string) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, SubmissionError{
		Success:    false,
		Error:      CodeRateLimited,
		Message:    message,
		RetryAfter: retryAfter,
	})
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	SubmissionFailure(c, http.StatusInternalServerError, CodeInternalError, "Something went wrong. Please try again.")
}
