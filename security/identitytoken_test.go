package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestIdentityToken(t *testing.T) {
	token, err := CreateIdentityToken(Identity{UniqueName: "nomina", Provider: "cli"}, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseIdentityToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "nomina", claims.UniqueName)
	assert.Equal(t, "cli", claims.Provider)
	assert.Equal(t, "nomina", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestIdentityTokenRejected(t *testing.T) {
	other := base64.StdEncoding.EncodeToString([]byte("another secret of enough length!"))

	expired, err := CreateIdentityToken(Identity{UniqueName: "nomina"}, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseIdentityToken(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	signed, err := CreateIdentityToken(Identity{UniqueName: "nomina"}, other, time.Hour)
	require.NoError(t, err)
	_, err = ParseIdentityToken(signed, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseIdentityToken("not-a-token", testSecret)
	assert.Error(t, err)

	_, err = CreateIdentityToken(Identity{UniqueName: "nomina"}, "%%%", time.Hour)
	assert.Error(t, err)
}
