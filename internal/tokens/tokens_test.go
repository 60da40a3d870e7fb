package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("access-secret")

	signed, err := SignAccess(42, "admin", secret, time.Now().Add(AccessTTL))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	id, err := UserID(claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = AccessClaimsFromToken(signed, []byte("wrong-secret"))
	assert.Error(t, err)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	secret := []byte("access-secret")

	signed, err := SignAccess(42, "user", secret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(signed, secret)
	assert.Error(t, err)
}

func TestRefreshTokenTypeEnforced(t *testing.T) {
	secret := []byte("refresh-secret")

	signed, err := SignRefresh(7, secret, time.Now().Add(RefreshTTL))
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Typ)

	// An access token is not accepted where a refresh token is required,
	// even under the right secret.
	access, err := SignAccess(7, "user", secret, time.Now().Add(AccessTTL))
	require.NoError(t, err)
	_, err = RefreshClaimsFromToken(access, secret)
	assert.Error(t, err)
}

func TestUserID_RejectsGarbageSubject(t *testing.T) {
	_, err := UserID("not-a-number")
	assert.Error(t, err)
}
