package mailer

import (
	"crypto/tls"

	mail "github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"github.com/fkhayef/lendex/internal/config"
)

// Mailer delivers reminder and account emails over SMTP. Delivery is
// best-effort: callers treat errors as log-and-continue.
type Mailer struct {
	dialer  *mail.Dialer
	from    string
	enabled bool
	logger  *logrus.Logger
}

// New builds a Mailer from configuration. With MailEnabled false every send
// becomes a logged no-op, which is the development default.
func New(cfg *config.Config, logger *logrus.Logger) *Mailer {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}

	return &Mailer{
		dialer:  d,
		from:    cfg.MailFrom,
		enabled: cfg.MailEnabled,
		logger:  logger,
	}
}

// Send delivers one plain-text email.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.enabled {
		m.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email sending disabled, skipping delivery")
		return nil
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.WithError(err).WithField("to", to).Error("Failed to send email")
		return err
	}

	m.logger.WithField("to", to).Debug("Email delivered")
	return nil
}
