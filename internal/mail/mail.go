// Package mail wraps the SMTP relay behind a narrow Sender interface so
// services and background jobs can be tested without a live relay.
package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers a single message. Either textBody or htmlBody may be
// empty, but not both. Failures surface as errors; callers decide
// whether to report or swallow them.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

type SMTPSender struct {
	dialer   *gomail.Dialer
	fromName string
	fromAddr string
}

func NewSMTPSender(host string, port int, username, password, fromAddr string) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(host, port, username, password),
		fromName: "Be Consistent",
		fromAddr: fromAddr,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromAddr, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)

	switch {
	case textBody != "" && htmlBody != "":
		m.SetBody("text/plain", textBody)
		m.AddAlternative("text/html", htmlBody)
	case htmlBody != "":
		m.SetBody("text/html", htmlBody)
	default:
		m.SetBody("text/plain", textBody)
	}

	// gomail has no context support; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
