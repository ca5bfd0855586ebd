// Package auth holds the token codec, the request principal and the
// authorization rules shared by every coursehub service.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload: the registered sub/iat/exp claims plus the
// role claim and the optional numeric user id.
type Claims struct {
	jwt.RegisteredClaims
	Role   Roles  `json:"role"`
	UserID *int64 `json:"id,omitempty"`
}

// Codec signs and parses HS256 tokens with a key shared by all services.
type Codec struct {
	key []byte
	now func() time.Time
}

func NewCodec(key []byte) *Codec {
	return &Codec{key: key, now: time.Now}
}

// SetClock replaces the time source used for iat and expiry checks.
func (c *Codec) SetClock(now func() time.Time) {
	c.now = now
}

// Encode signs a token for subject. expiresAt and the issuance time are
// stored with second precision; a random jti keeps tokens issued within the
// same second distinct.
func (c *Codec) Encode(subject string, role Role, userID *int64, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(c.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:   Roles{string(role)},
		UserID: userID,
	})

	tokenString, err := token.SignedString(c.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Issue is Encode with expiresAt = now + ttl.
func (c *Codec) Issue(subject string, role Role, userID *int64, ttl time.Duration) (string, error) {
	return c.Encode(subject, role, userID, c.now().Add(ttl))
}

// Decode verifies the signature and structure of tokenString and returns its
// claims. Expiry is not checked here; see IsExpired.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, common.Wrap(common.KindInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	switch {
	case claims.Subject == "":
		return nil, common.Wrap(common.KindInvalidToken, errors.New("missing sub claim"))
	case len(claims.Role.Authorities()) == 0:
		return nil, common.Wrap(common.KindInvalidToken, errors.New("missing role claim"))
	case claims.ExpiresAt == nil:
		return nil, common.Wrap(common.KindInvalidToken, errors.New("missing exp claim"))
	}

	return claims, nil
}

// IsExpired reports whether claims expire at or before the current time.
func (c *Codec) IsExpired(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(c.now())
}

// Validate reports whether tokenString decodes, belongs to expectedSubject
// (exact, case-sensitive) and has not expired.
func (c *Codec) Validate(tokenString, expectedSubject string) bool {
	claims, err := c.Decode(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && !c.IsExpired(claims)
}
