package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GuestClaims carries the display name a guest picked when requesting a
// token. There are no accounts behind it; the token only lets a client
// reconnect with the same name.
type GuestClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateGuestToken creates a signed guest identity token
func GenerateGuestToken(name, secret string, ttl time.Duration) (string, error) {
	claims := &GuestClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateGuestToken validates a guest token and returns its claims
func ValidateGuestToken(tokenString, secret string) (*GuestClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GuestClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*GuestClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
