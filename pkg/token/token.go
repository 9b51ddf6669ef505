// Package token issues and verifies time-limited signed tokens carrying a
// single payload string. Tokens are stateless: nothing is stored server
// side, and a token stays verifiable until its max age elapses.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidToken is returned for every verification failure. Expired,
// tampered and malformed tokens are deliberately indistinguishable to the
// caller.
var ErrInvalidToken = errors.New("invalid or expired token")

// Service signs and verifies tokens with a process-wide secret key.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService creates a token service using the given secret key.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// NewServiceWithClock creates a token service with an injected clock.
func NewServiceWithClock(secret string, now func() time.Time) *Service {
	return &Service{secret: []byte(secret), now: now}
}

// Issue creates a signed token embedding the payload and the current
// timestamp. The purpose salt is mixed into the signing key, so a token
// issued for one purpose fails verification under any other.
func (s *Service) Issue(payload, purpose string) string {
	body := base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." + strconv.FormatInt(s.now().Unix(), 10)
	return body + "." + s.sign(body, purpose)
}

// Verify checks the token's signature against the given purpose salt and
// rejects tokens older than maxAge. On success it returns the embedded
// payload.
func (s *Service) Verify(tok, purpose string, maxAge time.Duration) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}

	body := parts[0] + "." + parts[1]
	expected := s.sign(body, purpose)
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return "", ErrInvalidToken
	}

	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	age := s.now().Sub(time.Unix(issuedAt, 0))
	if age < 0 || age > maxAge {
		return "", ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(payload), nil
}

// sign computes the signature of body under a purpose-derived key.
func (s *Service) sign(body, purpose string) string {
	kdf := hmac.New(sha256.New, s.secret)
	kdf.Write([]byte(purpose))
	key := kdf.Sum(nil)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
