package securetoken

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	stateBytes = 32
	csrfBytes  = 32

	// DefaultAssertionTTL is the validity window for temp assertions.
	DefaultAssertionTTL = 5 * time.Minute
)

var (
	// ErrTokenInvalid is returned for any expired, malformed, or tampered token.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrSecretRequired is returned when a Service is built without a signing secret.
	ErrSecretRequired = errors.New("signing secret required")
)

// Config tunes a [Service]. Zero values fall back to defaults.
type Config struct {
	// Secret signs temp assertions. Required.
	Secret []byte
	// AssertionTTL overrides the 5-minute assertion window.
	AssertionTTL time.Duration
	// Issuer is stamped into assertions when set.
	Issuer string
}

// Service issues and checks the security primitives. Safe for concurrent
// use; all state is immutable after construction.
type Service struct {
	config Config
	now    func() time.Time
}

// NewService validates cfg and returns a ready Service.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretRequired
	}
	if cfg.AssertionTTL <= 0 {
		cfg.AssertionTTL = DefaultAssertionTTL
	}
	return &Service{config: cfg, now: time.Now}, nil
}

// GenerateState returns a URL-safe base64 nonce for OAuth state binding.
// Every call produces a fresh CSPRNG value.
func (s *Service) GenerateState() (string, error) {
	raw := make([]byte, stateBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// GenerateCSRFToken returns a hex-encoded CSPRNG token.
func (s *Service) GenerateCSRFToken() (string, error) {
	raw := make([]byte, csrfBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// VerifyState reports whether the stored and received state values are both
// present and equal. Either side missing is a failure, never an error.
func (s *Service) VerifyState(stored, received string) bool {
	if stored == "" || received == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(received)) == 1
}

// HashData returns the hex SHA-256 digest of data, for at-rest correlation
// values that must never be stored in the clear.
func (s *Service) HashData(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// ValidateRedirect sanitizes a post-login redirect target. Accepted forms:
// an absolute URL on the given origin, or a relative path with a single
// leading slash. Protocol-relative "//host" is an open-redirect vector and
// is rejected. Anything unacceptable collapses to "/".
func (s *Service) ValidateRedirect(target, origin string) string {
	if target == "" {
		return "/"
	}

	if strings.HasPrefix(target, "/") {
		if strings.HasPrefix(target, "//") {
			return "/"
		}
		return target
	}

	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() {
		return "/"
	}
	o, err := url.Parse(origin)
	if err != nil || o.Scheme == "" || o.Host == "" {
		return "/"
	}
	if u.Scheme != o.Scheme || u.Host != o.Host {
		return "/"
	}
	return target
}

// ValidateSAMLWindow checks a SAML condition window against the current
// time: now must be >= notBefore (when present) and < notOnOrAfter (when
// present). Both nil is a valid window.
func (s *Service) ValidateSAMLWindow(notBefore, notOnOrAfter *time.Time) bool {
	now := s.now()
	if notBefore != nil && now.Before(*notBefore) {
		return false
	}
	if notOnOrAfter != nil && !now.Before(*notOnOrAfter) {
		return false
	}
	return true
}
