package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestHMACIssuer_RoundTrip(t *testing.T) {
	issuer := NewHMACIssuer(testSecret, "notesapi", time.Hour)

	token, err := issuer.Issue("sub-1", "a@example.com")
	require.NoError(t, err)

	data, err := issuer.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", data.Sub)
	assert.Equal(t, "a@example.com", data.Email)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), data.Exp, 5)

	for _, header := range []string{token, "bearer " + token, "BEARER  " + token} {
		data, err = issuer.Verify(header)
		require.NoError(t, err, header)
		assert.Equal(t, "sub-1", data.Sub)
	}
}

func TestHMACIssuer_Rejects(t *testing.T) {
	issuer := NewHMACIssuer(testSecret, "notesapi", time.Hour)
	valid, err := issuer.Issue("sub-1", "")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		for _, header := range []string{"", "  ", "Bearer", "Bearer ", "bearer   ", "BEARER"} {
			_, err := issuer.Verify(header)
			assert.ErrorIs(t, err, ErrEmptyToken, "header %q", header)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewHMACIssuer("another-secret-another-secret-xx", "notesapi", time.Hour)
		_, err := other.Verify(valid)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewHMACIssuer(testSecret, "someone-else", time.Hour)
		_, err := other.Verify(valid)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewHMACIssuer(testSecret, "notesapi", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		old, err := past.Issue("sub-1", "")
		require.NoError(t, err)

		_, err = issuer.Verify(old)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "sub-1",
			"iss": "notesapi",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Verify(raw)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.Error(t, err)
	})
}

func TestJWKSVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "test-key",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	raw, err := json.Marshal(jwks)
	require.NoError(t, err)

	kf, err := keyfunc.NewJWKSetJSON(raw)
	require.NoError(t, err)
	verifier := NewJWKSVerifierFromKeyfunc(kf)

	sign := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub":   "idp-subject",
			"email": "idp@example.com",
			"exp":   exp.Unix(),
		})
		token.Header["kid"] = "test-key"
		signed, err := token.SignedString(key)
		require.NoError(t, err)
		return signed
	}

	data, err := verifier.Verify("Bearer " + sign(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "idp-subject", data.Sub)
	assert.Equal(t, "idp@example.com", data.Email)

	_, err = verifier.Verify(sign(time.Now().Add(-time.Hour)))
	assert.Error(t, err)

	_, err = verifier.Verify("")
	assert.ErrorIs(t, err, ErrEmptyToken)
}
