package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimblewick/MiraAI/internal/domain"
)

// Respond мапит ошибку таксономии на HTTP ответ с кодом ошибки.
// notFoundCode подставляется в 404, чтобы ресурс назывался по месту
// (PROFILE_NOT_FOUND, CONVERSATION_NOT_FOUND)
func Respond(c *gin.Context, err error, notFoundCode string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"field":   ve.Field,
				"message": ve.Reason,
			},
		})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    notFoundCode,
				"message": "not found",
			},
		})
		return
	}

	if errors.Is(err, domain.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "unauthorized",
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "internal server error",
		},
	})
}
