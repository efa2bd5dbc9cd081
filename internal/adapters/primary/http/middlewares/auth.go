package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ContextUserID ключ gin-контекста с идентификатором пользователя
	ContextUserID = "user_id"
	// ContextEmail ключ gin-контекста с email из токена (опционален)
	ContextEmail = "email"
)

type AuthConfig struct {
	Secret string `envconfig:"SECRET" required:"true"`
}

// Auth проверяет Bearer JWT: подпись HMAC, exp, обязательный sub.
// До хендлеров без subject запрос не доходит
func Auth(cfg *AuthConfig, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "missing bearer token")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			log.Warn("token validation failed", "error", err)
			unauthorized(c, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid token claims")
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			unauthorized(c, "token has no subject")
			return
		}

		c.Set(ContextUserID, sub)
		if email, ok := claims["email"].(string); ok && email != "" {
			c.Set(ContextEmail, email)
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
