package videoanalyzer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AppError is an error with the HTTP status it should be reported as.
type AppError struct {
	Code    int
	Message string
	Op      string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Op: op, Err: err}
}

func NotFound(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Op: op, Err: err}
}

func Unavailable(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Op: op, Err: err}
}

func Upstream(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: message, Op: op, Err: err}
}

func Internal(op string, err error, message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Op: op, Err: err}
}

// respondError writes {success:false, error, request_id} and logs at a level
// matching the status.
func respondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal("unknown", err, "Internal server error")
	}

	requestID := c.GetString(requestIDKey)
	entry := logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"op":         appErr.Op,
		"status":     appErr.Code,
	})
	if appErr.Err != nil {
		entry = entry.WithError(appErr.Err)
	}
	if appErr.Code >= http.StatusInternalServerError {
		entry.Error(appErr.Message)
	} else {
		entry.Warn(appErr.Message)
	}

	c.AbortWithStatusJSON(appErr.Code, gin.H{
		"success":    false,
		"error":      appErr.Message,
		"request_id": requestID,
	})
}
