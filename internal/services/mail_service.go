package services

import (
	"gopkg.in/gomail.v2"

	"github.com/devxpawan/smart-spend-sub002/internal/config"
)

// mailService sends email over SMTP. When no SMTP host is configured the
// service is a disabled no-op, so call sites do not need to branch.
type mailService struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

// NewMailService creates a MailServicer from the application configuration.
func NewMailService(cfg *config.Config) MailServicer {
	if !cfg.MailEnabled() {
		return &mailService{}
	}
	return &mailService{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:    cfg.SMTPFrom,
		enabled: true,
	}
}

// Enabled reports whether outgoing email is configured.
func (s *mailService) Enabled() bool { return s.enabled }

// Send delivers a message with a plain-text body and an optional HTML
// alternative. Sending when disabled is a silent no-op.
func (s *mailService) Send(to, subject, textBody, htmlBody string) error {
	if !s.enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	return s.dialer.DialAndSend(m)
}
