package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"looppilot/pkg/apperr"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// GmailNotification is the payload Gmail publishes on a mailbox change.
type GmailNotification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

// PushHandler reacts to a mailbox change, normally by syncing it.
type PushHandler interface {
	HandlePushNotification(ctx context.Context, emailAddress string, historyID uint64) error
}

// Service receives Gmail push notifications from Cloud Pub/Sub.
type Service struct {
	pubsubClient *pubsub.Client
	handler      PushHandler
	logger       *slog.Logger
	topicName    string
	subName      string

	mu sync.Mutex
	// Deduplication: track last historyId per mailbox to skip replays
	lastHistoryID map[string]uint64
}

func NewService(ctx context.Context, projectID, topicName, credentialsFile string, handler PushHandler, logger *slog.Logger) (*Service, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	s := newService(handler, topicName, logger)
	s.pubsubClient = client
	return s, nil
}

func newService(handler PushHandler, topicName string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	// The client wants short ids, Gmail wants the full resource name.
	if i := strings.LastIndex(topicName, "/"); i >= 0 {
		topicName = topicName[i+1:]
	}
	return &Service{
		handler:       handler,
		logger:        logger,
		topicName:     topicName,
		subName:       topicName + "-sub", // Convention: topic-sub
		lastHistoryID: make(map[string]uint64),
	}
}

// Start ensures the subscription exists and blocks receiving messages until
// ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.logger.Info("[PubSub] starting notification service", "topic", s.topicName, "subscription", s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		s.logger.Error("[PubSub] error checking subscription", "error", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			s.logger.Error("[PubSub] error checking topic", "error", err)
			return
		}
		if !topicExists {
			s.logger.Error("[PubSub] topic does not exist, cannot create subscription", "topic", s.topicName)
			return
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 60 * time.Second,
		})
		if err != nil {
			s.logger.Error("[PubSub] failed to create subscription", "error", err)
			return
		}
		s.logger.Info("[PubSub] created subscription", "subscription", s.subName)
	}

	// One sync at a time keeps Gmail quota usage predictable.
	sub.ReceiveSettings.NumGoroutines = 1
	sub.ReceiveSettings.MaxOutstandingMessages = 1

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.handleMessage(ctx, msg.Data) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
	if err != nil {
		s.logger.Error("[PubSub] error receiving messages", "error", err)
	}
}

// Close releases the Pub/Sub client.
func (s *Service) Close() error {
	if s.pubsubClient == nil {
		return nil
	}
	return s.pubsubClient.Close()
}

// handleMessage processes one payload and reports whether it should be
// acknowledged. Only transient failures are redelivered.
func (s *Service) handleMessage(ctx context.Context, data []byte) bool {
	var notification GmailNotification
	if err := json.Unmarshal(data, &notification); err != nil {
		s.logger.Warn("[PubSub] failed to unmarshal notification", "error", err)
		return true
	}
	if notification.EmailAddress == "" {
		return true
	}

	if !s.markSeen(notification.EmailAddress, notification.HistoryID) {
		s.logger.Debug("[PubSub] skipping duplicate notification", "email", notification.EmailAddress, "history_id", notification.HistoryID)
		return true
	}

	err := s.handler.HandlePushNotification(ctx, notification.EmailAddress, notification.HistoryID)
	switch {
	case err == nil:
		return true
	case apperr.Is(err, apperr.CodeNotConnected):
		s.logger.Info("[PubSub] notification for unknown mailbox", "email", notification.EmailAddress)
		return true
	default:
		s.logger.Warn("[PubSub] push-triggered sync failed", "email", notification.EmailAddress, "error", err)
		s.forget(notification.EmailAddress, notification.HistoryID)
		return !apperr.Is(err, apperr.CodeUpstream)
	}
}

func (s *Service) markSeen(email string, historyID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.lastHistoryID[email]; ok && historyID <= last {
		return false
	}
	s.lastHistoryID[email] = historyID
	return true
}

func (s *Service) forget(email string, historyID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastHistoryID[email] == historyID {
		delete(s.lastHistoryID, email)
	}
}
