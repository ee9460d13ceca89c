package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mrkr-backend/internal/domain"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusFor maps a domain error code to its HTTP status.
func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.ErrorCodeNotFound:
		return http.StatusNotFound
	case domain.ErrorCodeBadRequest, domain.ErrorCodeConfigResolution, domain.ErrorCodeDecode:
		return http.StatusBadRequest
	default:
		// auth, io, ocr and storage failures all surface as opaque 500s
		return http.StatusInternalServerError
	}
}

// RespondError writes the coded error envelope. Internal failures get a
// generic message; the cause stays server-side.
func RespondError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status := statusFor(code)

	msg := "internal server error"
	if status != http.StatusInternalServerError {
		var coded *domain.Error
		if errors.As(err, &coded) {
			msg = coded.Message
		} else if err != nil {
			msg = err.Error()
		}
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    string(code),
		},
	})
}

func RespondBadRequest(c *gin.Context, err error) {
	RespondError(c, domain.NewError(domain.ErrorCodeBadRequest, "invalid request", err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
