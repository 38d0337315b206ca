package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/team-mid/arcms-api/internal/config"
	"github.com/team-mid/arcms-api/internal/notification"
)

// The mailer drains the mail queue published by the API and owns the SMTP
// conversation, so slow or flaky mail servers never block request handling.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.NATSURL == "" {
		log.Fatal("ARCMS_NATS_URL must be set for the mailer worker")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "mailer").Logger()

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		log.Fatalf("failed to create smtp client: %v", err)
	}

	conn, err := nats.Connect(cfg.NATSURL, nats.Name("arcms-mailer"))
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer conn.Drain()

	sub, err := conn.QueueSubscribe(cfg.MailSubject, notification.MailQueue, func(m *nats.Msg) {
		var msg notification.MailMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			logger.Error().Err(err).Msg("discarding undecodable mail message")
			return
		}

		envelope, err := notification.BuildMsg(msg, cfg.MailSenderName, cfg.SMTPUsername)
		if err != nil {
			logger.Error().Err(err).Str("type", msg.Type).Msg("discarding unrenderable mail message")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := client.DialAndSendWithContext(ctx, envelope); err != nil {
			logger.Error().Err(err).Str("type", msg.Type).Str("to", msg.To).Msg("mail delivery failed")
			return
		}

		logger.Info().Str("type", msg.Type).Msg("mail delivered")
	})
	if err != nil {
		log.Fatalf("failed to subscribe to mail queue: %v", err)
	}
	defer sub.Unsubscribe()

	logger.Info().Str("subject", cfg.MailSubject).Msg("mailer worker started")

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	log.Println("mailer stopped")
}
