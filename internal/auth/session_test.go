package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_PersistAndReload(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")

	session := NewSession(tokenFile)
	assert.Empty(t, session.Token())

	require.NoError(t, session.SetToken("abc.def.ghi"))

	reloaded := NewSession(tokenFile)
	assert.Equal(t, "abc.def.ghi", reloaded.Token())
}

func TestSession_CreatesParentDirectory(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "nested", "dir", "token")

	session := NewSession(tokenFile)
	require.NoError(t, session.SetToken("tok"))

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok", string(data))
}

func TestSession_Clear(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	session := NewSession(tokenFile)
	require.NoError(t, session.SetToken("tok"))

	require.NoError(t, session.Clear())

	assert.Empty(t, session.Token())
	_, err := os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already cleared session is fine.
	require.NoError(t, session.Clear())
}

func TestSession_NoTokenFile(t *testing.T) {
	session := NewSession("")
	require.NoError(t, session.SetToken("in-memory-only"))
	assert.Equal(t, "in-memory-only", session.Token())
	require.NoError(t, session.Clear())
	assert.Empty(t, session.Token())
}

func TestSession_Claims(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken("user-1", "shopper@dstore.test", "customer")
	require.NoError(t, err)

	session := NewSession("")
	require.NoError(t, session.SetToken(token))

	claims, err := session.Claims()
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "shopper@dstore.test", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.False(t, session.IsAdmin())
	assert.False(t, session.Expired())
}

func TestSession_ClaimsErrors(t *testing.T) {
	session := NewSession("")
	_, err := session.Claims()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, session.SetToken("not-a-jwt"))
	_, err = session.Claims()
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSession_IsAdmin(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken("user-2", "admin@dstore.test", "admin")
	require.NoError(t, err)

	session := NewSession("")
	require.NoError(t, session.SetToken(token))
	assert.True(t, session.IsAdmin())
}

func TestSession_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	token, err := issuer.GenerateToken("user-1", "shopper@dstore.test", "customer")
	require.NoError(t, err)

	session := NewSession("")
	require.NoError(t, session.SetToken(token))
	assert.True(t, session.Expired())
}

func TestIssuer_ValidateToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken("user-1", "shopper@dstore.test", "customer")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).GenerateToken("user-1", "shopper@dstore.test", "customer")
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	token, err := issuer.GenerateToken("user-1", "shopper@dstore.test", "customer")
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
