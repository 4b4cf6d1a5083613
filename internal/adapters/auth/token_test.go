package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTVerifier_Verify(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	t.Run("valid token returns subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "ext-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		sub, err := verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "ext-1", sub)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"sub": "ext-1"})
		sub, err := verifier.Verify(token)
		require.Error(t, err)
		require.Empty(t, sub)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "ext-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		sub, err := verifier.Verify(token)
		require.Error(t, err)
		require.Empty(t, sub)
	})

	t.Run("unsigned algorithm is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "ext-1"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		sub, err := verifier.Verify(signed)
		require.Error(t, err)
		require.Empty(t, sub)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		sub, err := verifier.Verify(token)
		require.Error(t, err)
		require.Empty(t, sub)
	})

	t.Run("garbage input", func(t *testing.T) {
		sub, err := verifier.Verify("not-a-token")
		require.Error(t, err)
		require.Empty(t, sub)
	})
}
