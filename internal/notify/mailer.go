package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/devxxclaire/MyFinanceHub/internal/log"
)

// Mailer delivers rendered summary emails over SMTP with STARTTLS.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *log.Logger

	// send is swapped out in tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(host string, port int, username, password, from string, logger *log.Logger) *Mailer {
	if logger == nil {
		logger = log.New(log.ComponentMail, nil)
	}
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
		send:     smtp.SendMail,
	}
}

// Send delivers an HTML email to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := m.send(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.InfoContext(ctx, "Sent summary email",
		log.FieldRecipient, to,
		log.FieldOperation, log.OpSend)
	return nil
}
