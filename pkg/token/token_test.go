package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService(testSecret)

	tok := svc.Issue("a@b.com", "email-confirmation-salt")
	payload, err := svc.Verify(tok, "email-confirmation-salt", time.Hour)

	require.NoError(t, err)
	assert.Equal(t, "a@b.com", payload)
}

func TestVerifyRejectsCrossPurpose(t *testing.T) {
	svc := NewService(testSecret)

	tok := svc.Issue("a@b.com", "email-confirmation-salt")
	_, err := svc.Verify(tok, "password-reset-salt", time.Hour)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issued := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	now := issued

	svc := NewServiceWithClock(testSecret, func() time.Time { return now })
	tok := svc.Issue("a@b.com", "password-reset-salt")

	// Still valid right at the max age boundary.
	now = issued.Add(time.Hour)
	payload, err := svc.Verify(tok, "password-reset-salt", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", payload)

	// One second past the max age the token is dead.
	now = issued.Add(time.Hour + time.Second)
	_, err = svc.Verify(tok, "password-reset-salt", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	svc := NewService(testSecret)

	tok := svc.Issue("a@b.com", "email-confirmation-salt")
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	forged := "eyJmb3JnZWQifQ" + "." + parts[1] + "." + parts[2]

	_, err := svc.Verify(forged, "email-confirmation-salt", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok := NewService(testSecret).Issue("a@b.com", "email-confirmation-salt")

	_, err := NewService("other-secret").Verify(tok, "email-confirmation-salt", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	svc := NewService(testSecret)

	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!.123.sig"} {
		_, err := svc.Verify(tok, "email-confirmation-salt", time.Hour)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
