package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// ErrNoRecipients correo sin destinatarios.
var ErrNoRecipients = errors.New("mail: sin destinatarios")

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía correo por SMTP con gomail.
type SMTPMailer struct {
	from   string
	dialer sender
}

// NewSMTPMailer devuelve nil si SMTP_HOST no está configurado; los casos de uso toleran un Mailer nil.
func NewSMTPMailer(cfg config.SMTPConfig) ports.Mailer {
	if cfg.Host == "" {
		return nil
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{from: from, dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)}
}

// Send arma el mensaje HTML con adjuntos y lo envía; respeta la cancelación de ctx.
func (m *SMTPMailer) Send(ctx context.Context, mail ports.Mail) error {
	if len(mail.To) == 0 {
		return ErrNoRecipients
	}
	msg := buildMessage(m.from, mail)

	errc := make(chan error, 1)
	go func() { errc <- m.dialer.DialAndSend(msg) }()
	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("mail: enviar a %v: %w", mail.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from string, mail ports.Mail) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", mail.To...)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.HTMLBody)
	for _, a := range mail.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		msg.Attach(a.Filename, settings...)
	}
	return msg
}
