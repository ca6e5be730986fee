package response

import (
	"net/http"

	"sealedauction/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the error envelope, kept from the teacher's
// Response{Code,Message,Data} shape. Success responses write the payload
// directly (spec.md §6 does not wrap reads in an envelope).
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps an apperr.Code to its HTTP status per spec.md §6's table and
// writes the envelope. Plain errors (not *apperr.Error) are unexpected
// server faults.
func Error(c *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, Response{
			Code:    "INTERNAL",
			Message: err.Error(),
		})
		return
	}
	c.JSON(statusFor(ae.Code), Response{
		Code:    string(ae.Code),
		Message: ae.Message,
	})
}

func ParamError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    string(apperr.CodeValidation),
		Message: message,
	})
}

// statusFor implements spec.md §6's error->status mapping. Every code not
// listed explicitly is a client-side validation or state-precondition
// failure and maps to 400.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeUserNotFound, apperr.CodeAuctionNotFound:
		return http.StatusNotFound
	case apperr.CodeInsufficientAvailableBalance:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
