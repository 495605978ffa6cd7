// Package email renders and delivers customer-facing mail.  Delivery
// uses plain SMTP; rendering uses html/template.  Every send is
// best-effort: callers log failures and move on, a mail problem never
// fails the operation that triggered it.
package email

import (
	"context"
	"fmt"
	"net/smtp"
)

// Sender delivers one HTML message.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds server coordinates and the From identity.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPSender delivers mail over authenticated SMTP.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender builds a sender from config.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender { return &SMTPSender{cfg: cfg} }

// Send delivers a single HTML message to one recipient.
func (s *SMTPSender) Send(_ context.Context, to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, htmlBody))

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
}

// NopSender discards all mail.  Used in development when no SMTP host
// is configured.
type NopSender struct{}

// Send implements Sender by doing nothing.
func (NopSender) Send(context.Context, string, string, string) error { return nil }
