package auth

import (
	"strconv"
	"time"

	"github.com/simp-lee/jwt"

	"github.com/shree-dhimal/commoncore/apperror"
)

// TokenIssuer issues and verifies signed session tokens on top of an injected
// jwt.Service. The service is always supplied by the consuming application;
// this package never constructs one, so key material stays with the caller.
type TokenIssuer struct {
	svc    jwt.Service
	expiry time.Duration
}

// NewTokenIssuer creates a TokenIssuer. Panics if svc is nil; a non-positive
// expiry falls back to 24 hours.
func NewTokenIssuer(svc jwt.Service, expiry time.Duration) *TokenIssuer {
	if svc == nil {
		panic("auth.NewTokenIssuer: jwt service must not be nil")
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenIssuer{svc: svc, expiry: expiry}
}

// Issue generates a signed token for the given user and roles and returns it
// together with its expiry time. The expiry is read back from the generated
// token so it reflects what the verifier will see.
func (t *TokenIssuer) Issue(userID uint, roles []string) (string, time.Time, error) {
	token, err := t.svc.GenerateToken(strconv.FormatUint(uint64(userID), 10), roles, t.expiry)
	if err != nil {
		return "", time.Time{}, apperror.New(apperror.CodeInternal, "failed to generate token", err)
	}

	parsed, err := t.svc.ParseToken(token)
	if err != nil {
		return "", time.Time{}, apperror.New(apperror.CodeInternal, "failed to parse generated token", err)
	}

	return token, parsed.ExpiresAt, nil
}

// Verify validates a token's signature and expiry and returns the parsed
// token. Invalid tokens map to an unauthorized error.
func (t *TokenIssuer) Verify(token string) (*jwt.Token, error) {
	parsed, err := t.svc.ValidateAndParse(token)
	if err != nil {
		return nil, apperror.New(apperror.CodeUnauthorized, "invalid token", err)
	}
	return parsed, nil
}
