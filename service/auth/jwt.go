package auth

import (
	"time"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/service/persist"
	"github.com/golang-jwt/jwt/v5"
)

type authClaims struct {
	UserID persist.DBID `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAuthToken creates a signed HS256 token carrying the user's ID,
// expiring JWT_TTL seconds from now
func GenerateAuthToken(userID persist.DBID) (string, error) {
	secret := env.GetString("JWT_SECRET")
	validFor := time.Duration(env.GetInt64("JWT_TTL")) * time.Second

	claims := authClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validFor)),
			Issuer:    "evonft",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAuthToken verifies a token's signature and expiry and returns the
// user ID it carries. Any failure maps to ErrInvalidJWT.
func ParseAuthToken(token string) (persist.DBID, error) {
	claims := authClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(env.GetString("JWT_SECRET")), nil
	})

	if err != nil || !parsed.Valid {
		return "", ErrInvalidJWT
	}

	return claims.UserID, nil
}
