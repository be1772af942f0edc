package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"classmate_backend/internal/platform/apperror"
)

const (
	ContextUserID      = "userID"
	ContextTokenID     = "tokenID"
	ContextTokenExpiry = "tokenExpiry"
)

// RevocationChecker reports whether a token id has been logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Principal is the authenticated caller extracted from a valid token.
type Principal struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

var errMissingSubject = errors.New("token has no numeric subject")

// ErrUnauthenticated is returned by CurrentUserID outside an AuthRequired group.
var ErrUnauthenticated = apperror.New(apperror.ErrUnauthorized, "unauthorized")

// ParseToken verifies the signature (HMAC only) and expiry of tokenStr and
// returns the principal it carries.
func ParseToken(tokenStr, secret string) (*Principal, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok || sub <= 0 {
		return nil, errMissingSubject
	}
	p := &Principal{UserID: uint(sub)}
	if jti, ok := claims["jti"].(string); ok {
		p.TokenID = jti
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	return p, nil
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only. checker may be nil.
func AuthRequired(secret string, checker RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Server misconfiguration (JWT_SECRET not set)
		if secret == "" {
			slog.Error("JWT secret is not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 3. Parse and verify JWT signature
		p, err := ParseToken(tokenStr, secret)
		if err != nil {
			slog.Warn("token rejected", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4. Reject tokens that were logged out
		if checker != nil && p.TokenID != "" {
			revoked, err := checker.IsRevoked(c.Request.Context(), p.TokenID)
			if err != nil {
				slog.Error("token revocation check failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
				return
			}
		}

		c.Set(ContextUserID, p.UserID)
		c.Set(ContextTokenID, p.TokenID)
		c.Set(ContextTokenExpiry, p.ExpiresAt)

		// 5. Pass control to the next handler
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentUserID is UserID for handlers that report failures through response.Error.
func CurrentUserID(c *gin.Context) (uint, error) {
	id, ok := UserID(c)
	if !ok {
		return 0, ErrUnauthenticated
	}
	return id, nil
}

// TokenInfo returns the token id and expiry set by AuthRequired.
func TokenInfo(c *gin.Context) (string, time.Time) {
	id := c.GetString(ContextTokenID)
	exp, _ := c.Get(ContextTokenExpiry)
	t, _ := exp.(time.Time)
	return id, t
}
