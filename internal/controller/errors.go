package controller

import (
	"errors"
	"net/http"

	"order-tracking-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
)

// writeError traduce los errores de negocio a códigos HTTP.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTokenExpired):
		status = http.StatusUnauthorized
		c.Header("WWW-Authenticate", "Bearer")
	case errors.Is(err, service.ErrInvalidToken):
		status = http.StatusForbidden
		c.Header("WWW-Authenticate", "Bearer")
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrPersistenceFailure):
		status = http.StatusExpectationFailed
	}

	if status >= http.StatusInternalServerError || status == http.StatusExpectationFailed {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
