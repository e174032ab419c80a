// Package session extracts the owner identity from an access token.
//
// The client never verifies signatures; the gateway does that on every
// request. Locally the token only routes records to their owner.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/dockeeper/internal/common"
)

type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Active reports whether the session is usable at the given moment.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.UserID != "" && now.Before(s.ExpiresAt)
}

// Parse reads the sub and exp claims without verifying the signature.
// An expired or malformed token yields common.ErrInvalidToken.
func Parse(token string) (*Session, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", common.ErrInvalidToken)
	}
	if time.Now().After(exp.Time) {
		return nil, fmt.Errorf("%w: token expired", common.ErrInvalidToken)
	}

	return &Session{Token: token, UserID: sub, ExpiresAt: exp.Time}, nil
}
