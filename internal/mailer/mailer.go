package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Sender sends one HTML e-mail.
type Sender interface {
	Send(to []string, subject, htmlBody string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a Sender over one SMTP endpoint.
func NewSMTPSender(host string, port int, user, password, from string) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *smtpSender) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
