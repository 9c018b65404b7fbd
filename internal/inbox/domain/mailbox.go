package domain

import (
	"context"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

const LabelSent = "SENT"

// ThreadRef is one entry of a thread listing page.
type ThreadRef struct {
	ID      string
	Snippet string
}

type ThreadPage struct {
	Threads       []ThreadRef
	NextPageToken string
}

// MailboxMessage is the metadata of one message, independent of the mail API.
type MailboxMessage struct {
	ID       string
	From     string
	Subject  string
	Date     time.Time
	LabelIDs []string
}

type MailboxThread struct {
	ID       string
	Snippet  string
	Messages []MailboxMessage
}

// IsOutbound decides the direction of a message. A message is outbound when
// its sender address equals the connected account address, compared
// case-insensitively. When the account address is unknown the SENT label is
// used instead.
func IsOutbound(from, account string, labels []string) bool {
	account = strings.TrimSpace(account)
	if account == "" {
		return hasLabel(labels, LabelSent)
	}
	sender := senderAddress(from)
	if sender == "" {
		return false
	}
	return strings.EqualFold(sender, account)
}

func senderAddress(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return ""
	}
	addr, err := mail.ParseAddress(from)
	if err == nil {
		return addr.Address
	}
	// Fall back to a bare "<addr>" or "addr" form.
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return strings.TrimSpace(from[i+1 : i+j])
		}
	}
	if strings.Contains(from, "@") && !strings.ContainsAny(from, " \t") {
		return from
	}
	return ""
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// Mailbox is an authenticated session on one user's mail account.
type Mailbox interface {
	ListThreads(ctx context.Context, query, pageToken string, pageSize int64) (*ThreadPage, error)
	GetThread(ctx context.Context, threadID string) (*MailboxThread, error)
	ProfileEmail(ctx context.Context) (string, error)
	// Watch registers push notifications on topic and returns the current history id.
	Watch(ctx context.Context, topic string) (uint64, error)
}

// MailboxConnector runs the OAuth flow and opens Mailbox sessions.
type MailboxConnector interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleToken, error)
	Open(ctx context.Context, token *GoogleToken, onRefresh TokenRefreshFunc) (Mailbox, error)
}
