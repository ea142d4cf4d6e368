package notify

import "context"

// Notifier delivers one rendered digest. An empty htmlBody sends a
// plain-only message. A failed send is fatal to the run; nothing here
// retries above what the transport itself does.
type Notifier interface {
	Send(ctx context.Context, subject, textBody, htmlBody string) error
}
