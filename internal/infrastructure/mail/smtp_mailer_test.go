package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

type captureSender struct {
	msgs  []*gomail.Message
	err   error
	delay time.Duration
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	time.Sleep(s.delay)
	s.msgs = append(s.msgs, m...)
	return s.err
}

func TestSend_ArmaMensajeConAdjunto(t *testing.T) {
	s := &captureSender{}
	m := &SMTPMailer{from: "ventas@farma.com", dialer: s}
	err := m.Send(context.Background(), ports.Mail{
		To:          []string{"cliente@hospital.org"},
		Subject:     "Remito PED-000001",
		HTMLBody:    "<p>Adjuntamos el remito</p>",
		Attachments: []ports.Attachment{{Filename: "remito-PED-000001.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}},
	})
	require.NoError(t, err)
	require.Len(t, s.msgs, 1)

	assert.Equal(t, []string{"cliente@hospital.org"}, s.msgs[0].GetHeader("To"))
	assert.Equal(t, []string{"Remito PED-000001"}, s.msgs[0].GetHeader("Subject"))
	var buf bytes.Buffer
	_, err = s.msgs[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `filename="remito-PED-000001.pdf"`)
}

func TestSend_SinDestinatarios(t *testing.T) {
	m := &SMTPMailer{from: "a@b.com", dialer: &captureSender{}}
	assert.ErrorIs(t, m.Send(context.Background(), ports.Mail{Subject: "x"}), ErrNoRecipients)
}

func TestSend_PropagaErrorSMTP(t *testing.T) {
	m := &SMTPMailer{from: "a@b.com", dialer: &captureSender{err: errors.New("535 auth")}}
	err := m.Send(context.Background(), ports.Mail{To: []string{"x@y.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
}

func TestSend_RespetaCancelacion(t *testing.T) {
	m := &SMTPMailer{from: "a@b.com", dialer: &captureSender{delay: 200 * time.Millisecond}}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Send(ctx, ports.Mail{To: []string{"x@y.com"}}), context.DeadlineExceeded)
}

func TestNewSMTPMailer_SinHostDevuelveNil(t *testing.T) {
	assert.Nil(t, NewSMTPMailer(config.SMTPConfig{}))
	assert.NotNil(t, NewSMTPMailer(config.SMTPConfig{Host: "smtp.farma.com", Port: 587}))
}
