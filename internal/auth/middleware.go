package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Arrties/backend/internal/models"
)

// TokenBlacklist reports whether an access token was invalidated by logout
// before its natural expiry.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware validates JWT tokens and protects routes. Tokens revoked
// through logout are rejected even when their signature is still valid.
func AuthMiddleware(blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// Validate token
		claims, err := ValidateToken(tokenString)
		if err != nil {
			log.Printf("Auth Debug: Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), tokenString)
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error": "Token verification temporarily unavailable",
				})
				c.Abort()
				return
			}
			if revoked {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Token has been revoked",
				})
				c.Abort()
				return
			}
		}

		// Set member information in context
		c.Set("member_id", claims.MemberID)
		c.Set("member_role", claims.Role)

		c.Next()
	}
}

// ArtistOnly rejects members that did not register as artists. Must run
// after AuthMiddleware.
func ArtistOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("member_role")
		if !exists || role.(models.MemberRole) != models.MemberRoleArtist {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Artist account required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetMemberID retrieves the member ID from the context
func GetMemberID(c *gin.Context) (uint, bool) {
	memberID, exists := c.Get("member_id")
	if !exists {
		return 0, false
	}

	id, ok := memberID.(uint)
	return id, ok
}
