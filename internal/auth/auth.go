// Package auth verifies the identity claim issued by the external login
// service. Token issuance lives outside this service.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"
)

const RoleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified claim attached to an authenticated request.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

type Verifier interface {
	Verify(token string) (*Identity, error)
}

// Claims mirrors the payload signed by the login service: {id, email, role}.
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify checks signature, algorithm and expiry, then returns the identity.
func (v *JWTVerifier) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role claim", ErrInvalidToken)
	}

	return &Identity{ID: claims.ID, Email: claims.Email, Role: claims.Role}, nil
}
