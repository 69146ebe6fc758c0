package mailer

import (
	"log"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends notification emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a third-party SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewFromEnv builds an SMTPMailer from SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASSWORD and SMTP_FROM.
func NewFromEnv() *SMTPMailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD")),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

// SendAsync fires a notification in the background. Delivery failures are
// logged and never surfaced to the HTTP caller.
func SendAsync(m Mailer, to, subject, body string) {
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			log.Printf("⚠️ Failed to send email to %s: %v", to, err)
		}
	}()
}
