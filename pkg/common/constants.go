package common

import "time"

const (
	RedisStreamEmailSend = "portfolio.email.send"

	RedisStreamGroup    = "mailer-group"
	RedisStreamConsumer = "mailer-consumer"
)

// Token purposes. The salt bound to each purpose is what makes a token
// minted for one flow fail verification in the other.
const (
	TokenPurposeEmailConfirmation = "email-confirmation-salt"
	TokenPurposePasswordReset     = "password-reset-salt"

	TokenMaxAge = time.Hour
)

// Email kinds carried on the mail stream.
const (
	EmailKindConfirmation  = "confirmation"
	EmailKindPasswordReset = "password-reset"
)
