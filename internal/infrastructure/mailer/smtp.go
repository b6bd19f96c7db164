package mailer

import (
	"crypto/tls"
	"errors"

	mail "github.com/go-mail/mail/v2"
)

var ErrNotConfigured = errors.New("smtp not configured (SMTP_HOST/SMTP_FROM)")

type Config struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

// Sender abstracts the dialer so tests can observe the built message.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTP sends notification e-mails through go-mail. A zero Config yields a
// mailer whose Send reports ErrNotConfigured.
type SMTP struct {
	cfg    Config
	sender Sender
}

func NewSMTP(cfg Config) *SMTP {
	s := &SMTP{cfg: cfg}
	if cfg.Host == "" || cfg.From == "" {
		return s
	}
	if cfg.Port == 0 {
		cfg.Port = 587
		s.cfg.Port = 587
	}
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: cfg.SkipTLSVerify}
	s.sender = d
	return s
}

// WithSender swaps the transport.
func (s *SMTP) WithSender(snd Sender) *SMTP {
	s.sender = snd
	return s
}

func (s *SMTP) Configured() bool { return s.sender != nil && s.cfg.From != "" }

func (s *SMTP) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if !s.Configured() {
		return ErrNotConfigured
	}
	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.sender.DialAndSend(m)
}
