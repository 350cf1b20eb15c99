package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JWT signing secret, loaded from .env at startup.
var JwtKey = []byte("your_secret_key")

// Minted credentials stay valid for a week.
const TokenValidity = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity AuthGate extracts from a verified credential.
// Tokens may carry extra payload fields; only these are interpreted.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// GenerateToken signs an arbitrary identity payload as JWT claims with
// a 7-day expiry. No user-existence check happens here: any caller can
// mint a token for any payload it can construct. Known product gap,
// kept pending a verified login flow.
func GenerateToken(payload map[string]interface{}) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["exp"] = time.Now().Add(TokenValidity).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// VerifyToken checks signature and expiry and returns the decoded
// identity, or ErrInvalidToken. It never panics on garbage input.
func VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return JwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
