package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/miralles/wedding-rsvp-api/models"
)

// AccessTokenTTL bounds how long a redeemed code grants access before the
// visitor must re-validate.
const AccessTokenTTL = 12 * time.Hour

// AccessClaims carries the redeemed code snapshot inside the signed access
// token. The signature is what lets a reload re-derive session state without
// trusting the client blindly.
type AccessClaims struct {
	Code models.CodeSnapshot `json:"code"`
	jwt.RegisteredClaims
}

// NewAccessToken signs a token holding the code snapshot for one session.
func NewAccessToken(snap *models.CodeSnapshot, secret string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Code: *snap,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   snap.Code,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken verifies the signature and expiry and returns the embedded
// code snapshot.
func ParseAccessToken(tokenString, secret string) (*models.CodeSnapshot, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return &claims.Code, nil
}
