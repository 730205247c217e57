package securetoken

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Assertion is the minimal identity payload bridging a multi-step SSO
// handshake without a persisted session.
type Assertion struct {
	UserID   int64  `json:"uid"`
	Provider string `json:"provider"`
	Email    string `json:"email"`
}

type assertionClaims struct {
	UserID   int64  `json:"uid"`
	Provider string `json:"provider"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// IssueTempAssertion signs payload under the service secret with the
// configured short validity window.
func (s *Service) IssueTempAssertion(payload Assertion) (string, error) {
	now := s.now()
	claims := assertionClaims{
		UserID:   payload.UserID,
		Provider: payload.Provider,
		Email:    payload.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AssertionTTL)),
		},
	}
	if s.config.Issuer != "" {
		claims.Issuer = s.config.Issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.Secret)
}

// VerifyTempAssertion parses and validates a temp assertion. Expired,
// malformed, or tampered tokens return [ErrTokenInvalid]; the original
// payload comes back only for a fully valid token.
func (s *Service) VerifyTempAssertion(tokenStr string) (Assertion, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &assertionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.config.Secret, nil
	})
	if err != nil {
		return Assertion{}, errors.Join(ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*assertionClaims)
	if !ok || !token.Valid {
		return Assertion{}, ErrTokenInvalid
	}

	return Assertion{
		UserID:   claims.UserID,
		Provider: claims.Provider,
		Email:    claims.Email,
	}, nil
}
