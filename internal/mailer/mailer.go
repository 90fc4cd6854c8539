// Package mailer dispatches notification emails over SMTP
package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Mailer sends HTML emails through an SMTP server
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *zap.Logger
}

// NewMailer creates a new SMTP mailer
func NewMailer(host string, port int, username, password, from string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

// Send delivers a single HTML email. The call blocks until the SMTP server
// accepts or rejects the message; the caller decides what a failure means.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("email dispatched",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
