// Package notifier sends maturity reminder emails over SMTP.
package notifier

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"

	"github.com/FinObraDev/credit_instruments_app/internal/core/domain"
	"github.com/FinObraDev/credit_instruments_app/internal/platform/config"
)

// MaturityNotifier delivers instrument maturity reminders. Implemented by the
// SMTP sender and by a no-op used when mail is not configured.
type MaturityNotifier interface {
	SendMaturityReminder(instruments []domain.CreditInstrument, windowEnd time.Time) error
}

// EmailSender sends reminders through a plain-auth SMTP relay.
type EmailSender struct {
	cfg    *config.Config
	logger *slog.Logger
}

var _ MaturityNotifier = (*EmailSender)(nil)

// NewEmailSender creates a new SMTP-backed sender.
func NewEmailSender(cfg *config.Config, logger *slog.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

// SendMaturityReminder emails the configured recipient a summary of every
// instrument ending inside the scan window.
func (s *EmailSender) SendMaturityReminder(instruments []domain.CreditInstrument, windowEnd time.Time) error {
	if len(instruments) == 0 {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.EmailFrom
	e.To = []string{s.cfg.ReminderTo}
	e.Subject = fmt.Sprintf("%d credit instrument(s) maturing by %s", len(instruments), windowEnd.Format("2006-01-02"))

	var body strings.Builder
	body.WriteString("The following credit instruments reach their end date soon:\n\n")
	for _, ci := range instruments {
		fmt.Fprintf(&body, "- %s (%s), limit %s %s, ends %s\n",
			ci.Name, ci.InstrumentType, ci.TotalLimit.StringFixed(2), ci.Currency, ci.EndDate.Format("2006-01-02"))
	}
	body.WriteString("\nReview renewal or settlement options before the end dates.\n")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send maturity reminder: %w", err)
	}

	s.logger.Info("Maturity reminder sent",
		slog.Int("instrument_count", len(instruments)),
		slog.String("to", s.cfg.ReminderTo))
	return nil
}

// NoopNotifier drops reminders; used when SMTP is not configured.
type NoopNotifier struct {
	logger *slog.Logger
}

var _ MaturityNotifier = (*NoopNotifier)(nil)

// NewNoopNotifier creates a notifier that only logs.
func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) SendMaturityReminder(instruments []domain.CreditInstrument, windowEnd time.Time) error {
	if len(instruments) > 0 {
		n.logger.Info("Maturity reminder suppressed, SMTP not configured",
			slog.Int("instrument_count", len(instruments)))
	}
	return nil
}
