package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 1)
	sessionID, tok, err := m.NewSession()
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	claims, err := m.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	tok, err := NewJWTManager("secret-a", 1).GenerateToken("s-1")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", 1).VerifyToken(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := NewJWTManager("secret", 1)
	tok, err := m.GenerateToken("s-1")
	require.NoError(t, err)

	_, err = m.VerifyToken(tok + "x")
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("secret", 1)
	claims := SessionClaims{
		SessionID: "s-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.VerifyToken(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSessionID(t *testing.T) {
	m := NewJWTManager("secret", 1)
	tok, err := m.GenerateToken("")
	require.NoError(t, err)

	_, err = m.VerifyToken(tok)
	assert.Error(t, err)
}
