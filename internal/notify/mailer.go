package notify

import (
	"context"

	"github.com/nmkhans/mamar-bank/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// Mailer delivers notices over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *Mailer) Send(ctx context.Context, subject string, user models.User, amount decimal.Decimal, templateKey string) error {
	body, err := renderBody(templateKey, user, amount)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
