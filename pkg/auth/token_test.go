package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndParseRoundTrip(t *testing.T) {
	now := time.Now()
	token, err := Mint("secret", "storefront", time.Hour, now, ShopperClaims{
		UserID: "u-1",
		Name:   "Ayesha Khan",
		Email:  "ayesha@example.com",
	})
	require.NoError(t, err)

	claims, err := Parse("secret", "storefront", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ayesha@example.com", claims.Email)

	_, err = Parse("other-secret", "storefront", token)
	require.Error(t, err)

	_, err = Parse("secret", "someone-else", token)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Mint("secret", "storefront", time.Minute, time.Now().Add(-time.Hour), ShopperClaims{UserID: "u-1"})
	require.NoError(t, err)

	_, err = Parse("secret", "storefront", token)
	require.Error(t, err)
}

func TestDecodeUnverifiedIgnoresSignatureAndExpiry(t *testing.T) {
	token, err := Mint("server-only", "storefront", time.Minute, time.Now().Add(-time.Hour), ShopperClaims{
		UserID: "u-2",
		Name:   "Bilal",
		Phone:  "+923001234567",
	})
	require.NoError(t, err)

	claims, err := DecodeUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "Bilal", claims.Name)
	assert.Equal(t, "+923001234567", claims.Phone)
}

func TestDecodeUnverifiedRejectsGarbage(t *testing.T) {
	_, err := DecodeUnverified("")
	require.Error(t, err)
	_, err = DecodeUnverified("opaque-session-token")
	require.Error(t, err)
}

func TestMintValidatesInput(t *testing.T) {
	_, err := Mint("", "iss", time.Hour, time.Now(), ShopperClaims{UserID: "u"})
	require.Error(t, err)
	_, err = Mint("s", "iss", 0, time.Now(), ShopperClaims{UserID: "u"})
	require.Error(t, err)
	_, err = Mint("s", "iss", time.Hour, time.Now(), ShopperClaims{})
	require.Error(t, err)
}
