package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestDecodeJWTRoundTrip(t *testing.T) {
	secret := []byte("secret")
	userID := uuid.New()

	token := signToken(t, jwt.MapClaims{"id": userID.String()}, secret)

	claims, err := DecodeJWT(token, secret)
	require.NoError(t, err)

	actorID, err := ActorIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, userID, actorID)
}

func TestDecodeJWTWrongSecret(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"id": uuid.New().String()}, []byte("secret"))

	_, err := DecodeJWT(token, []byte("other"))
	assert.Error(t, err)
}

func TestDecodeJWTRejectsNonHMAC(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": uuid.New().String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = DecodeJWT(token, []byte("secret"))
	assert.Error(t, err)
}

func TestActorIDFromClaims(t *testing.T) {
	userID := uuid.New()

	id, err := ActorIDFromClaims(jwt.MapClaims{"sub": userID.String()})
	require.NoError(t, err)
	assert.Equal(t, userID, id)

	_, err = ActorIDFromClaims(jwt.MapClaims{})
	assert.ErrorIs(t, err, ErrNoSubject)

	_, err = ActorIDFromClaims(jwt.MapClaims{"id": "not-a-uuid"})
	assert.Error(t, err)
}
