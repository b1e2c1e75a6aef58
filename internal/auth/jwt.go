package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Arrties/backend/internal/models"
)

var jwtSecret []byte

// AccessTokenTTL is how long an access token stays valid. Logout blacklists
// the token for its remaining lifetime, so this bounds the blacklist TTL too.
const AccessTokenTTL = 30 * time.Minute

// RefreshTokenTTL is how long a refresh token stays valid
const RefreshTokenTTL = 14 * 24 * time.Hour

// InitJWT initializes the JWT secret
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// Claims represents the JWT claims
type Claims struct {
	MemberID uint              `json:"member_id"`
	LoginID  string            `json:"login_id"`
	Role     models.MemberRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken generates a new access token for a member
func GenerateAccessToken(member *models.Member) (string, error) {
	return generateToken(member, AccessTokenTTL)
}

// GenerateRefreshToken generates a new refresh token for a member
func GenerateRefreshToken(member *models.Member) (string, error) {
	return generateToken(member, RefreshTokenTTL)
}

func generateToken(member *models.Member, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", fmt.Errorf("JWT secret not initialized")
	}

	claims := &Claims{
		MemberID: member.ID,
		LoginID:  member.LoginID,
		Role:     member.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)

	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, fmt.Errorf("JWT secret not initialized")
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// RemainingTTL returns how long the token stays valid from now. Used to
// bound the logout blacklist entry.
func RemainingTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
