package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kommerce/shop/internal/models"
	"github.com/kommerce/shop/internal/tokens"
)

func TestRegister(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r, JWTSecret: []byte("a"), RefreshSecret: []byte("b")}
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	// Duplicate email.
	_, err = svc.Register(ctx, "alice2", "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrConflict)

	// Missing fields.
	_, err = svc.Register(ctx, "", "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginAndLogout(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r, JWTSecret: []byte("access-secret"), RefreshSecret: []byte("refresh-secret")}
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.False(t, result.IsAdmin)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// Tokens verify under their own secrets and carry the user's identity.
	access, err := tokens.AccessClaimsFromToken(result.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	id, err := tokens.UserID(access.Subject)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, id)
	assert.Equal(t, models.RoleUser, access.Role)

	_, err = tokens.RefreshClaimsFromToken(result.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)

	// The refresh token is persisted for later rotation and revocation.
	stored, err := r.FindRefreshToken(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.False(t, stored.Revoked)

	require.NoError(t, svc.Logout(ctx, result.RefreshToken))
	stored, err = r.FindRefreshToken(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.True(t, stored.Revoked)
}

func TestLogin_BadCredentials(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r, JWTSecret: []byte("a"), RefreshSecret: []byte("b")}
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddAddress(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r, JWTSecret: []byte("a"), RefreshSecret: []byte("b")}
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	got, err := svc.AddAddress(ctx, user.ID, "1 First St", true)
	require.NoError(t, err)
	require.Len(t, got.Addresses, 1)
	assert.True(t, got.Addresses[0].IsDefault)

	// A new default address demotes the previous one.
	got, err = svc.AddAddress(ctx, user.ID, "2 Second St", true)
	require.NoError(t, err)
	require.Len(t, got.Addresses, 2)

	defaults := 0
	for _, a := range got.Addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, "2 Second St", a.Street)
		}
	}
	assert.Equal(t, 1, defaults)

	_, err = svc.AddAddress(ctx, user.ID, "", false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProfile_NotFound(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r, JWTSecret: []byte("a"), RefreshSecret: []byte("b")}

	_, err := svc.Profile(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
