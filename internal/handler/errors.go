package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/eduquiz-api/internal/pkg/errors"
)

// handleServiceError обрабатывает ошибки от сервисов и отправляет соответствующий HTTP ответ
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUpstreamUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
