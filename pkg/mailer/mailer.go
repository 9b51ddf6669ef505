// Package mailer sends the application's transactional email over SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Notifier defines the interface for the outbound mail sender.
type Notifier interface {
	SendConfirmationEmail(to, confirmURL string) error
	SendPasswordResetEmail(to, resetURL string) error
}

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type client struct {
	dialer *gomail.Dialer
	from   string
}

// NewClient creates a new SMTP notifier client.
func NewClient(cfg Config) Notifier {
	return &client{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<p>Thanks for registering!</p>
<p>Please click the link below to confirm your email address:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>The link expires in one hour.</p>
`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`
<p>A password reset was requested for your account.</p>
<p>Please click the link below to choose a new password:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>The link expires in one hour. If you did not request a reset, you can ignore this email.</p>
`))

func (c *client) SendConfirmationEmail(to, confirmURL string) error {
	return c.send(to, "Confirm Your Email Address", confirmationTmpl, confirmURL)
}

func (c *client) SendPasswordResetEmail(to, resetURL string) error {
	return c.send(to, "Password Reset Requested", passwordResetTmpl, resetURL)
}

func (c *client) send(to, subject string, tmpl *template.Template, url string) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, struct{ URL string }{URL: url}); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
