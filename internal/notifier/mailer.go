package notifier

import (
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/domain"
	gomail "gopkg.in/gomail.v2"
)

// Attachment is a file sent along with a message
type Attachment struct {
	Name string
	Path string
}

// Message is a single outbound email
type Message struct {
	Recipient   string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Transport delivers one message over one connection. Each call stands alone
// so that a transient SMTP failure never poisons a later attempt.
type Transport interface {
	Send(cfg domain.MailConfig, msg Message) error
}

// SMTPTransport delivers messages over SMTP with a fresh dialer per send
type SMTPTransport struct{}

// NewSMTPTransport creates a new SMTPTransport
func NewSMTPTransport() *SMTPTransport {
	return &SMTPTransport{}
}

// Send dials the configured server, delivers the message and closes the
// connection
func (t *SMTPTransport) Send(cfg domain.MailConfig, msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.SenderEmail, cfg.SenderName)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	for _, att := range msg.Attachments {
		m.Attach(att.Path, gomail.Rename(att.Name))
	}

	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.SenderEmail, cfg.SenderPassword)
	// Implicit TLS on the smtps port; STARTTLS is negotiated otherwise
	d.SSL = !cfg.UseTLS && cfg.Port == 465
	return d.DialAndSend(m)
}
