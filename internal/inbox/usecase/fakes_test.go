package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"looppilot/internal/inbox/domain"
	"looppilot/internal/inbox/repository"
	"looppilot/pkg/config"
	"looppilot/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMailbox struct {
	pages      map[string]*domain.ThreadPage
	threads    map[string]*domain.MailboxThread
	email      string
	historyID  uint64
	failThread string

	queries   []string
	listCalls int
	getCalls  int
	watched   []string
}

func (m *fakeMailbox) ListThreads(_ context.Context, query, pageToken string, pageSize int64) (*domain.ThreadPage, error) {
	m.listCalls++
	m.queries = append(m.queries, query)
	if pageSize != 100 {
		return nil, errors.New("unexpected page size")
	}
	page, ok := m.pages[pageToken]
	if !ok {
		return &domain.ThreadPage{}, nil
	}
	return page, nil
}

func (m *fakeMailbox) GetThread(_ context.Context, threadID string) (*domain.MailboxThread, error) {
	m.getCalls++
	if threadID == m.failThread {
		return nil, errors.New("503 backend error")
	}
	t, ok := m.threads[threadID]
	if !ok {
		return &domain.MailboxThread{ID: threadID}, nil
	}
	return t, nil
}

func (m *fakeMailbox) ProfileEmail(context.Context) (string, error) { return m.email, nil }

func (m *fakeMailbox) Watch(_ context.Context, topic string) (uint64, error) {
	m.watched = append(m.watched, topic)
	return m.historyID, nil
}

type fakeConnector struct {
	mailbox  *fakeMailbox
	openErr  error
	exchange *domain.GoogleToken
	opened   []*domain.GoogleToken
}

func (c *fakeConnector) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (c *fakeConnector) Exchange(_ context.Context, code string) (*domain.GoogleToken, error) {
	if code != "good-code" {
		return nil, errors.New("invalid_grant")
	}
	tok := *c.exchange
	return &tok, nil
}

func (c *fakeConnector) Open(_ context.Context, token *domain.GoogleToken, _ domain.TokenRefreshFunc) (domain.Mailbox, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.opened = append(c.opened, token)
	return c.mailbox, nil
}

type fakeSigner struct{}

func (fakeSigner) SignState(userID string) (string, error) { return "state:" + userID, nil }

func (fakeSigner) VerifyState(state string) (string, error) {
	if len(state) > 6 && state[:6] == "state:" {
		return state[6:], nil
	}
	return "", errors.New("invalid oauth state")
}

type harness struct {
	db        *gorm.DB
	uc        *inboxUsecase
	connector *fakeConnector
	mailbox   *fakeMailbox
	threads   repository.ThreadRepository
	states    repository.SyncStateRepository
	tokens    repository.TokenRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Thread{}, &domain.SyncState{}, &domain.GoogleToken{}))

	mb := &fakeMailbox{
		pages:   map[string]*domain.ThreadPage{},
		threads: map[string]*domain.MailboxThread{},
		email:   "ada@example.com",
	}
	conn := &fakeConnector{mailbox: mb, exchange: &domain.GoogleToken{AccessToken: "a", RefreshToken: "r"}}
	cfg := &config.Config{SyncLookbackDays: 30, SyncMaxPages: 3}

	h := &harness{
		db:        db,
		connector: conn,
		mailbox:   mb,
		threads:   repository.NewGormThreadRepository(db),
		states:    repository.NewGormSyncStateRepository(db),
		tokens:    repository.NewGormTokenRepository(db),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.uc = NewInboxUsecase(h.threads, h.states, h.tokens, conn, fakeSigner{}, cfg, logger).(*inboxUsecase)
	h.uc.now = func() time.Time { return now }
	return h
}

func (h *harness) connect(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, h.tokens.Save(&domain.GoogleToken{
		UserID:       userID,
		EmailAddress: "ada@example.com",
		AccessToken:  "a",
		RefreshToken: "r",
		Expiry:       now.Add(time.Hour),
	}))
}
