package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"looppilot/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	calls []GmailNotification
	err   error
}

func (h *recordingHandler) HandlePushNotification(_ context.Context, email string, historyID uint64) error {
	h.calls = append(h.calls, GmailNotification{EmailAddress: email, HistoryID: historyID})
	return h.err
}

func newTestService(h PushHandler) *Service {
	return newService(h, "gmail-push", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleMessage_DispatchesAndDeduplicates(t *testing.T) {
	h := &recordingHandler{}
	s := newTestService(h)
	ctx := context.Background()

	assert.True(t, s.handleMessage(ctx, []byte(`{"emailAddress":"ada@example.com","historyId":10}`)))
	assert.True(t, s.handleMessage(ctx, []byte(`{"emailAddress":"ada@example.com","historyId":10}`)))
	assert.True(t, s.handleMessage(ctx, []byte(`{"emailAddress":"ada@example.com","historyId":9}`)))
	assert.True(t, s.handleMessage(ctx, []byte(`{"emailAddress":"ada@example.com","historyId":11}`)))

	assert.Equal(t, []GmailNotification{
		{EmailAddress: "ada@example.com", HistoryID: 10},
		{EmailAddress: "ada@example.com", HistoryID: 11},
	}, h.calls)
}

func TestHandleMessage_MalformedIsAcked(t *testing.T) {
	h := &recordingHandler{}
	s := newTestService(h)

	assert.True(t, s.handleMessage(context.Background(), []byte(`not json`)))
	assert.True(t, s.handleMessage(context.Background(), []byte(`{"historyId":3}`)))
	assert.Empty(t, h.calls)
}

func TestHandleMessage_UpstreamFailureIsRedelivered(t *testing.T) {
	h := &recordingHandler{err: apperr.Upstream("failed to list threads", nil)}
	s := newTestService(h)
	payload := []byte(`{"emailAddress":"ada@example.com","historyId":5}`)

	assert.False(t, s.handleMessage(context.Background(), payload))

	// The failed history id is forgotten so the redelivery is processed.
	h.err = nil
	assert.True(t, s.handleMessage(context.Background(), payload))
	assert.Len(t, h.calls, 2)
}

func TestHandleMessage_UnknownMailboxIsAcked(t *testing.T) {
	h := &recordingHandler{err: apperr.New(apperr.CodeNotConnected, "no connected mailbox")}
	s := newTestService(h)

	assert.True(t, s.handleMessage(context.Background(), []byte(`{"emailAddress":"x@example.com","historyId":1}`)))
}

func TestNewService_ShortTopicID(t *testing.T) {
	s := newService(&recordingHandler{}, "projects/looppilot/topics/gmail-push", nil)
	assert.Equal(t, "gmail-push", s.topicName)
	assert.Equal(t, "gmail-push-sub", s.subName)
}
