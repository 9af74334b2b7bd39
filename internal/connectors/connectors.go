package connectors

import (
	"context"

	"invoiceparts/internal"
)

// MailConnector pulls raw messages from one mailbox label or folder.
type MailConnector interface {
	FetchInbox(ctx context.Context, label string, max int) ([]internal.FetchedMailMessage, error)
}
