package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// MailQueue is the queue group drained by the cmd/mailer worker.
const MailQueue = "arcms-mailer"

// NATSNotifier publishes mail messages to a NATS subject for the mailer
// worker to deliver. Delivery is best-effort and decoupled from the request.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSNotifier constructs the queue-backed backend.
func NewNATSNotifier(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSNotifier {
	return &NATSNotifier{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "nats_notifier").Logger(),
	}
}

// Send enqueues the message. A publish failure is reported as a delivery
// failure; the mailer worker owns the actual SMTP conversation.
func (n *NATSNotifier) Send(_ context.Context, msg MailMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode mail message: %w", err)
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		n.logger.Error().Err(err).Str("type", msg.Type).Msg("mail enqueue failed")
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	n.logger.Info().Str("type", msg.Type).Str("subject", n.subject).Msg("mail enqueued")
	return nil
}
