package auth

import (
	"net/http"
	"strings"

	"github.com/Aidin1998/foodgram/api/responses"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	userIDKey = "userID"
	claimsKey = "claims"
)

// Authenticate resolves the bearer token when one is sent. Anonymous requests pass through;
// a malformed, expired or revoked token is rejected with 401.
func Authenticate(log *zap.Logger, tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := extractToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.Validate(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, errors.Unauthorized) {
				responses.Unauthorized(c, "invalid or expired token")
				return
			}
			log.Error("token validation failed", zap.Error(err))
			responses.InternalServerError(c, "failed to validate token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			responses.Unauthorized(c, "invalid token subject")
			return
		}

		c.Set(userIDKey, userID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireUser rejects anonymous requests with 401
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			responses.Unauthorized(c, "authentication credentials were not provided")
			return
		}
		c.Next()
	}
}

// ReadOnlyOrUser lets safe methods through and requires a user for the rest
func ReadOnlyOrUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if _, ok := UserID(c); !ok {
			responses.Unauthorized(c, "authentication credentials were not provided")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentClaims returns the claims of the presented token
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// extractToken accepts both "Bearer <jwt>" and "Token <jwt>"
func extractToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		token = strings.TrimSpace(token)
		return token, token != ""
	}
	return "", false
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
