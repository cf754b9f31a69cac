package http_api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/0xZumii/cat-tv/pkg/apperr"
)

// userIDKey is the gin context key the auth middleware stores the caller under.
const userIDKey = "userID"

// authRequired verifies the bearer token and resolves it to a user id.
// This is the whole identity-provider adapter: verify(token) -> userId | reject.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, apperr.New(apperr.Unauthenticated, "Must be logged in"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, apperr.New(apperr.Unauthenticated, "Invalid Authorization header"))
			c.Abort()
			return
		}

		userID, err := s.verifyToken(parts[1])
		if err != nil {
			s.logger.Debug("Token verification failed", "error", err)
			respondError(c, apperr.New(apperr.Unauthenticated, "Must be logged in"))
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// verifyToken parses an HS256 token and returns its subject.
func (s *HTTPServer) verifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}

// currentUser returns the authenticated user id set by authRequired.
func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}
