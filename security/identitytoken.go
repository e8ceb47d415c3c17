package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer   = "ponches"
	Audience = "ponches-api"
)

type Identity struct {
	UniqueName string `json:"unique_name"`
	Provider   string `json:"provider,omitempty"`
}

// IdentityClaims includes Identity and standard JWT claims
type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

func decodeSecret(base64Secret string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 secret: %w", err)
	}
	if len(secret) == 0 {
		return nil, errors.New("empty secret")
	}
	return secret, nil
}

// CreateIdentityToken signs an HS256 token for identity that expires after
// expiresIn.
func CreateIdentityToken(identity Identity, base64Secret string, expiresIn time.Duration) (string, error) {
	secret, err := decodeSecret(base64Secret)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := IdentityClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UniqueName,
			Issuer:    Issuer,
			Audience:  []string{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseIdentityToken verifies the signature, issuer, audience and expiry of
// tokenStr.
func ParseIdentityToken(tokenStr, base64Secret string) (*IdentityClaims, error) {
	secret, err := decodeSecret(base64Secret)
	if err != nil {
		return nil, err
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
