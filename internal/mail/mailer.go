package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/Arrties/backend/internal/config"
)

// Mailer sends transactional mail (verification codes, reset passwords)
// over plain SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer creates a new Mailer
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendVerificationCode mails a signup verification code
func (m *Mailer) SendVerificationCode(to, code string) error {
	body := fmt.Sprintf("Your Arrties verification code is %s.\nIt expires in 5 minutes.", code)
	return m.send(to, "Arrties e-mail verification", body)
}

// SendResetPassword mails a freshly issued temporary password
func (m *Mailer) SendResetPassword(to, password string) error {
	body := fmt.Sprintf("Your temporary password is %s.\nPlease change it after logging in.", password)
	return m.send(to, "Arrties password reset", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if m.cfg.Host == "" {
		// No SMTP configured (local development), log instead of failing
		// the enclosing request.
		log.Printf("[Mailer] SMTP not configured, skipping mail to %s: %s", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	return nil
}
