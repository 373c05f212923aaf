package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/domain"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return e.Message
}

func newValidationError(field, code, message string) error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

func invalidRequestError() error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "invalid request body",
	}
}

// AbortWithError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so internals never leak.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal server error"

	switch {
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidCustomer),
		errors.Is(err, invoicedomain.ErrInvalidOrder),
		errors.Is(err, invoicedomain.ErrInvalidAmount):
		status = http.StatusBadRequest
		code = err.Error()
		message = err.Error()
	case errors.Is(err, invoicedomain.ErrInvoiceNotOpen):
		status = http.StatusConflict
		code = err.Error()
		message = err.Error()
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound), errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		message = "resource not found"
	case errors.Is(err, ErrTooManyRequests):
		status = http.StatusTooManyRequests
		code = "too_many_requests"
		message = "too many requests"
	case errors.Is(err, ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
		code = "service_unavailable"
		message = "service unavailable"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    code,
		"message": message,
	}})
}
