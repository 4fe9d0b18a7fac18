package utils

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSubject    = errors.New("token has no user id")
)

func DecodeJWT(token string, secret []byte) (jwt.MapClaims, error) {
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ActorIDFromClaims reads the authenticated user id from the "id" claim, falling back to "sub".
func ActorIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	idString, ok := claims["id"].(string)
	if !ok || idString == "" {
		idString, ok = claims["sub"].(string)
	}
	if !ok || idString == "" {
		return uuid.Nil, ErrNoSubject
	}

	return uuid.Parse(idString)
}
