package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTVerifier_Valid(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{
		ID:    1,
		Email: "admin@example.com",
		Role:  RoleAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	identity, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.ID)
	assert.Equal(t, RoleAdmin, identity.Role)
	assert.Equal(t, "admin@example.com", identity.Email)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage",
			token: "not-a-token",
		},
		{
			name: "wrong secret",
			token: signToken(t, jwt.SigningMethodHS256, []byte("other"), Claims{
				ID: 1, Role: RoleAdmin,
			}),
		},
		{
			name: "expired",
			token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{
				ID: 1, Role: RoleAdmin,
				StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
			}),
		},
		{
			name:  "missing role",
			token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{ID: 1}),
		},
		{
			name:  "unsigned",
			token: signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{ID: 1, Role: RoleAdmin}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, identity)
		})
	}
}
