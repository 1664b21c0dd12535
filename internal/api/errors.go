package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collection/internal/catalog"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

// statusFor маппит kind ошибки каталога в HTTP-статус.
func statusFor(kind catalog.Kind) int {
	switch kind {
	case catalog.KindNotFound:
		return http.StatusNotFound
	case catalog.KindConflict:
		return http.StatusConflict
	case catalog.KindTypeNotFound, catalog.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError пишет {"error":{"code","message"}}. Чужие ошибки, 500 internal.
func respondError(c *gin.Context, err error) {
	var e *catalog.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: apiError{
			Code:    string(catalog.KindInternal),
			Message: "internal error",
		}})
		return
	}
	msg := e.Message
	if msg == "" {
		msg = err.Error()
	}
	c.JSON(statusFor(e.Kind), errorEnvelope{Error: apiError{Code: string(e.Kind), Message: msg}})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorEnvelope{Error: apiError{Code: string(catalog.KindValidation), Message: msg}})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, errorEnvelope{Error: apiError{Code: string(catalog.KindNotFound), Message: msg}})
}
