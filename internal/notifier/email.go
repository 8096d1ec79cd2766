package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"stockalert/internal/components/assert"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

func (c SmtpConfig) configured() bool {
	return c.Server != "" && c.EmailAddress != "" && len(c.To) > 0
}

// Email sends messages as plain text mail.
type Email struct {
	config SmtpConfig
	// send is replaced in tests
	send func(mail *email.Email, addr string, auth smtp.Auth) error
}

func NewEmail(config SmtpConfig) Email {
	assert.NotEmptyStr(config.Server)
	assert.NotEmptyStr(config.EmailAddress)

	if config.Port == 0 {
		config.Port = 587
	}
	return Email{
		config: config,
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}
}

func (e Email) Send(ctx context.Context, message Message) error {
	_, span := tracer.Start(ctx, "email")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Stock Alert <%s>", e.config.EmailAddress)
	mail.To = e.config.To
	mail.Subject = fmt.Sprintf("Stock Alert: %s", message.Title)
	mail.Text = []byte(fmt.Sprintf("%s\n\n%s", message.Body, message.URL))

	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	err := e.send(
		mail,
		addr,
		smtp.PlainAuth("", e.config.EmailAddress, e.config.Password, e.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = e.send(mail, addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return wrap("email", err)
	}
	return nil
}
