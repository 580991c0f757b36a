package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned for tokens that fail signature or expiry checks
var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and verifies HS256 access tokens
type TokenManager struct {
	key []byte
	ttl time.Duration
}

// NewTokenManager creates a TokenManager; tokens expire ttl after issue
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{key: secret, ttl: ttl}
}

// Issue signs a token carrying the caller supplied claims. Any "exp" claim in
// the input is replaced by the manager's expiry.
func (tm *TokenManager) Issue(claims map[string]interface{}) (string, error) {
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = time.Now().Unix()
	mc["exp"] = time.Now().Add(tm.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	tokenString, err := token.SignedString(tm.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses the token and returns its claims when the signature and
// expiry are valid
func (tm *TokenManager) Verify(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return tm.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	// MapClaims.Valid accepts tokens without exp; ours always carry one
	if _, ok := claims["exp"]; !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ClaimEmail returns the "email" claim, or "" when absent
func ClaimEmail(claims jwt.MapClaims) string {
	email, _ := claims["email"].(string)
	return email
}
