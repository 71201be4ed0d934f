package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// Attachment is a file sent alongside a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is an outbound email
type Message struct {
	FromName    string
	From        string
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender delivers messages through one provider
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Provider() string
}

// SenderConfig selects and configures a provider
type SenderConfig struct {
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
}

// NewSender picks SendGrid when an API key is set, SMTP when a host is set,
// and falls back to logging messages.
func NewSender(cfg SenderConfig, log logger.Logger) Sender {
	switch {
	case cfg.SendGridAPIKey != "":
		log.Info("email sender initialized", "provider", models.EmailProviderSendGrid)
		return NewSendGridSender(cfg.SendGridAPIKey)
	case cfg.SMTPHost != "":
		log.Info("email sender initialized", "provider", models.EmailProviderSMTP, "host", cfg.SMTPHost)
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	default:
		log.Warn("email sender in console mode, set SENDGRID_API_KEY or SMTP_HOST to deliver mail")
		return NewConsoleSender(log)
	}
}

// SendGridSender delivers through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
}

// NewSendGridSender creates a SendGrid sender
func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey)}
}

func (s *SendGridSender) Provider() string { return models.EmailProviderSendGrid }

// Send implements Sender
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(msg.FromName, msg.From)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, htmlOrText(msg))

	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Data))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		message.AddAttachment(att)
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// SMTPSender delivers through an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender creates an SMTP sender
func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, password)}
}

func (s *SMTPSender) Provider() string { return models.EmailProviderSMTP }

// Send implements Sender. gomail has no context support; ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(buildSMTPMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func buildSMTPMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	if msg.FromName != "" {
		m.SetAddressHeader("From", msg.From, msg.FromName)
	} else {
		m.SetHeader("From", msg.From)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}

// ConsoleSender logs messages instead of delivering them
type ConsoleSender struct {
	logger logger.Logger
}

// NewConsoleSender creates a console sender
func NewConsoleSender(log logger.Logger) *ConsoleSender {
	return &ConsoleSender{logger: log}
}

func (s *ConsoleSender) Provider() string { return models.EmailProviderConsole }

// Send implements Sender
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	s.logger.Info("email not delivered (console mode)",
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", names,
	)
	return nil
}

func htmlOrText(msg Message) string {
	if msg.HTML != "" {
		return msg.HTML
	}
	return "<pre>" + html.EscapeString(msg.Text) + "</pre>"
}
