package notification

import (
	"context"
	"errors"
)

// ErrDelivery wraps any mail delivery failure so callers can distinguish it
// from persistence errors: an already-committed state change is never rolled
// back because a notification could not be delivered.
var ErrDelivery = errors.New("mail delivery failed")

// Notifier delivers a mail message. Implementations may send synchronously
// over SMTP or hand the message to a queue for best-effort async delivery.
type Notifier interface {
	Send(ctx context.Context, msg MailMessage) error
}
