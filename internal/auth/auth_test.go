package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestUserIDFromToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-123", "role": "authenticated"})

	userID, err := UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestUserIDFromToken_MissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"role": "authenticated"})

	_, err := UserIDFromToken(token)
	require.Error(t, err)
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	_, err := UserIDFromToken("not-a-jwt")
	require.Error(t, err)
}
