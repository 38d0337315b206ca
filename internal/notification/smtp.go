package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// SMTPConfig carries the settings for the direct SMTP backend.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	SenderName string
}

// SMTPNotifier delivers mail messages synchronously over SMTP.
type SMTPNotifier struct {
	client *mail.Client
	cfg    SMTPConfig
	logger zerolog.Logger
}

// NewSMTPNotifier constructs the SMTP backend.
func NewSMTPNotifier(cfg SMTPConfig, logger zerolog.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host must be provided")
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPNotifier{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "smtp_notifier").Logger(),
	}, nil
}

// Send renders and delivers the message, awaiting the SMTP conversation.
func (n *SMTPNotifier) Send(ctx context.Context, msg MailMessage) error {
	m, err := BuildMsg(msg, n.cfg.SenderName, n.cfg.Username)
	if err != nil {
		return err
	}

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		n.logger.Error().Err(err).Str("type", msg.Type).Msg("smtp delivery failed")
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	n.logger.Info().Str("type", msg.Type).Msg("mail delivered")
	return nil
}

// BuildMsg renders a mail message into a go-mail envelope.
func BuildMsg(msg MailMessage, senderName, senderAddr string) (*mail.Msg, error) {
	rendered, err := Render(msg)
	if err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.FromFormat(senderName, senderAddr); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	m.Subject(rendered.Subject)
	m.SetBodyString(mail.TypeTextPlain, rendered.Text)
	m.AddAlternativeString(mail.TypeTextHTML, rendered.HTML)

	return m, nil
}
