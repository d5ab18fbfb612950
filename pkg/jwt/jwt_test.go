package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_EmptySecret(t *testing.T) {
	_, err := NewManager("", time.Hour, "bookish")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestManager_RoundTrip(t *testing.T) {
	m, err := NewManager("s3cret", time.Hour, "bookish")
	require.NoError(t, err)

	token, exp, err := m.GenerateAccessToken("u-1", "ada")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
}

func TestManager_ValidateToken_Errors(t *testing.T) {
	m, err := NewManager("s3cret", time.Minute, "bookish")
	require.NoError(t, err)

	other, err := NewManager("different", time.Minute, "bookish")
	require.NoError(t, err)
	foreign, _, err := other.GenerateAccessToken("u-1", "ada")
	require.NoError(t, err)

	wrongIssuer, err := NewManager("s3cret", time.Minute, "elsewhere")
	require.NoError(t, err)
	misissued, _, err := wrongIssuer.GenerateAccessToken("u-1", "ada")
	require.NoError(t, err)

	expiredMgr, err := NewManager("s3cret", time.Minute, "bookish")
	require.NoError(t, err)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredMgr.GenerateAccessToken("u-1", "ada")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"wrong issuer", misissued, ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
