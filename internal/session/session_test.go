package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/session"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParse(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "user1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	s, err := session.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user1", s.UserID)
	assert.Equal(t, token, s.Token)
	assert.True(t, s.Active(time.Now()))
}

func TestParseExpired(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "user1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := session.Parse(token)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseMissingClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"no subject", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}},
		{"no expiry", jwt.MapClaims{"sub": "user1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.Parse(signToken(t, tt.claims))
			require.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestParseGarbage(t *testing.T) {
	_, err := session.Parse("not-a-jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestActiveNil(t *testing.T) {
	var s *session.Session
	assert.False(t, s.Active(time.Now()))
}
