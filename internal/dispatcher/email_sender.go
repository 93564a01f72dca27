package dispatcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/models"
)

// SMTPConfig configures the outgoing mail server.
type SMTPConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	FromAddress        string
	FromName           string
	InsecureSkipVerify bool
	// RatePerSec paces deliveries; zero disables pacing.
	RatePerSec float64
}

// mailDialer is the part of gomail.Dialer the sender needs.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender delivers html mails over SMTP, one message per call.
// It does not retry; the caller decides what a failure means.
type EmailSender struct {
	dialer   mailDialer
	from     string
	fromName string
	limiter  *rate.Limiter
	log      *logger.Logger
}

// NewEmailSender creates an SMTP backed sender.
func NewEmailSender(cfg SMTPConfig, log *logger.Logger) *EmailSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local relays
	}

	return newEmailSender(d, cfg, log)
}

func newEmailSender(d mailDialer, cfg SMTPConfig, log *logger.Logger) *EmailSender {
	s := &EmailSender{
		dialer:   d,
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		log:      log,
	}
	if cfg.RatePerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	return s
}

// Send delivers msg. It blocks until the server accepted or rejected it.
func (s *EmailSender) Send(ctx context.Context, msg models.Message) error {
	if msg.To == "" {
		return errors.New("recipient cannot be empty")
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for send slot: %w", err)
		}
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	s.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
	return nil
}
