package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool
}

var dialAndSend = func(d *gomail.Dialer, m ...*gomail.Message) error {
	return d.DialAndSend(m...)
}

// SMTPMailer opens one SMTP connection per message.
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (s *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.SSL = s.cfg.SSL
	if err := dialAndSend(d, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

type FakeMailer struct {
	SendFn func(ctx context.Context, to, subject, body string) error
}

func (f *FakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.SendFn != nil {
		return f.SendFn(ctx, to, subject, body)
	}
	panic("unexpected Send")
}
