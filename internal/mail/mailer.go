package mail

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Best-effort invoice dispatch. Send never blocks checkout: failures are
// logged and swallowed by the caller.
type Mailer interface {
	Send(toEmail, toName, subject, body string, attachments []Attachment) error
}

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

func NewSendGridMailer(apiKey, fromEmail, fromName string, logger *slog.Logger) *SendGridMailer {
	m := &SendGridMailer{
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
	if apiKey != "" {
		m.client = sendgrid.NewSendClient(apiKey)
	}
	return m
}

func (m *SendGridMailer) Send(toEmail, toName, subject, body string, attachments []Attachment) error {
	if m.client == nil || m.fromEmail == "" {
		return fmt.Errorf("mailer not configured")
	}

	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(toName, toEmail)
	msg := sgmail.NewSingleEmail(from, subject, to, body, body)

	for _, a := range attachments {
		att := sgmail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		msg.AddAttachment(att)
	}

	resp, err := m.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}

	m.logger.Info("invoice mail sent", "to", toEmail, "attachments", len(attachments))
	return nil
}
