package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	"github.com/gardenpro/landscape-api/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := bearer(cfg, c.GetHeader("Authorization"))
		if !ok {
			httperr.Unauthorized(c, "Not authorized to access this route")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is sent and lets
// anonymous requests through unchanged.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, ok := bearer(cfg, c.GetHeader("Authorization")); ok {
			c.Set(ContextUserID, userID)
			c.Set(ContextUserRole, role)
		}
		c.Next()
	}
}

func bearer(cfg *config.Config, authHeader string) (uint, string, bool) {
	if authHeader == "" {
		return 0, "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, "", false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}

	userID, ok1 := claims["sub"].(float64)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 || userID <= 0 {
		return 0, "", false
	}
	return uint(userID), role, true
}

// Authorize must run after AuthMiddleware.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, fmt.Sprintf("User role %s is not authorized to access this route", role))
	}
}

// Actor returns the authenticated caller, or the zero Actor on public routes.
func Actor(c *gin.Context) access.Actor {
	return access.Actor{
		UserID: c.GetUint(ContextUserID),
		Role:   c.GetString(ContextUserRole),
	}
}

// IssueToken signs the access token returned by register and login.
func IssueToken(cfg *config.Config, userID uint, role string, now func() int64) (string, error) {
	iat := now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  iat,
		"exp":  iat + int64(cfg.JWTExpiry().Seconds()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
