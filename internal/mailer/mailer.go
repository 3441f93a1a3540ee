// Package mailer sends transactional notifications over SMTP. Delivery is
// best-effort: callers log failures and carry on, so a broken mail relay
// never blocks ledger work.
package mailer

import (
	"crypto/tls"
	"fmt"
	"time"

	"microfin/internal/config"
	"microfin/internal/money"

	"github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"
)

type Mailer struct {
	dialer  *mail.Dialer
	from    string
	enabled bool
	log     *logrus.Logger
}

func New(cfg config.Config, log *logrus.Logger) *Mailer {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}
	d.Timeout = 10 * time.Second
	return &Mailer{
		dialer:  d,
		from:    cfg.MailFrom,
		enabled: cfg.MailEnabled,
		log:     log,
	}
}

func (m *Mailer) SendTransactionApproved(email, txnCode, txType string, amountMinor int64) error {
	subject := fmt.Sprintf("Transaction %s approved", txnCode)
	body := fmt.Sprintf(`
		<h1>Transaction Approved</h1>
		<p>Reference: <strong>%s</strong></p>
		<p>Type: <strong>%s</strong></p>
		<p>Amount: <strong>%s</strong></p>
		<p>Date: <strong>%s</strong></p>
		<small>This is an automated notification, please do not reply.</small>
	`, txnCode, txType, money.FormatMinor(amountMinor), time.Now().Format("02 Jan 2006 15:04"))
	return m.send(email, subject, body)
}

func (m *Mailer) SendLoanStatusChanged(email, loanCode, status string) error {
	subject := fmt.Sprintf("Loan %s status update", loanCode)
	body := fmt.Sprintf(`
		<h1>Loan Status Update</h1>
		<p>Reference: <strong>%s</strong></p>
		<p>New status: <strong>%s</strong></p>
		<small>This is an automated notification, please do not reply.</small>
	`, loanCode, status)
	return m.send(email, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.enabled {
		m.log.WithField("to", to).Debug("mail delivery disabled, skipping")
		return nil
	}
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	m.log.WithField("to", to).Info("notification email sent")
	return nil
}
