package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"looppilot/internal/inbox/domain"
	"looppilot/internal/inbox/dto"
	"looppilot/internal/inbox/repository"
	"looppilot/pkg/apperr"
	"looppilot/pkg/config"
	"looppilot/pkg/fuzzy"
)

const providerGmail = "gmail"

// inboxUsecase implements InboxUsecase interface
type inboxUsecase struct {
	threadRepo    repository.ThreadRepository
	syncStateRepo repository.SyncStateRepository
	tokenRepo     repository.TokenRepository
	connector     domain.MailboxConnector
	signer        StateSigner
	config        *config.Config
	logger        *slog.Logger
	now           func() time.Time
}

// NewInboxUsecase creates a new instance of inboxUsecase
func NewInboxUsecase(
	threadRepo repository.ThreadRepository,
	syncStateRepo repository.SyncStateRepository,
	tokenRepo repository.TokenRepository,
	connector domain.MailboxConnector,
	signer StateSigner,
	cfg *config.Config,
	logger *slog.Logger,
) InboxUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &inboxUsecase{
		threadRepo:    threadRepo,
		syncStateRepo: syncStateRepo,
		tokenRepo:     tokenRepo,
		connector:     connector,
		signer:        signer,
		config:        cfg,
		logger:        logger,
		now:           time.Now,
	}
}

func (u *inboxUsecase) GetOpenLoops(userID string, minDays, maxDays int) (*dto.OpenLoopsResponse, error) {
	if minDays < 0 || maxDays < 0 || minDays > maxDays {
		return nil, apperr.InvalidInput("minDays and maxDays must be non-negative with minDays <= maxDays")
	}

	rows, err := u.threadRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("failed to load threads", err)
	}

	items, summary := Classify(rows, minDays, maxDays, u.now())
	return &dto.OpenLoopsResponse{
		Items:      items,
		NextCursor: nil,
		Summary:    summary,
	}, nil
}

func (u *inboxUsecase) GetStatus(userID string) (*dto.InboxStatusResponse, error) {
	resp := &dto.InboxStatusResponse{Provider: providerGmail}

	token, err := u.tokenRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("failed to load mailbox credential", err)
	}
	if token == nil {
		return resp, nil
	}

	resp.Connected = true
	if token.EmailAddress != "" {
		email := token.EmailAddress
		resp.EmailAddress = &email
	}

	state, err := u.syncStateRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("failed to load sync state", err)
	}
	if state != nil {
		resp.LastSyncAt = state.LastSyncAt
	}
	return resp, nil
}

func (u *inboxUsecase) ListThreads(userID, query string) ([]*domain.Thread, error) {
	threads, err := u.threadRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("failed to load threads", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return threads, nil
	}

	type scored struct {
		thread *domain.Thread
		score  float64
	}
	hits := make([]scored, 0, len(threads))
	for _, t := range threads {
		if s := fuzzy.Score(query, t.Subject, t.Snippet); s > 0 {
			hits = append(hits, scored{thread: t, score: s})
		}
	}
	// Stable keeps the newest-outbound order among equal scores.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]*domain.Thread, len(hits))
	for i, h := range hits {
		out[i] = h.thread
	}
	return out, nil
}

func (u *inboxUsecase) GetThread(userID, threadID string) (*domain.Thread, error) {
	thread, err := u.threadRepo.FindByID(userID, threadID)
	if err != nil {
		return nil, apperr.Storage("failed to load thread", err)
	}
	if thread == nil {
		return nil, apperr.NotFound("thread not found")
	}
	return thread, nil
}

func (u *inboxUsecase) ConnectURL(userID string) (string, error) {
	state, err := u.signer.SignState(userID)
	if err != nil {
		return "", err
	}
	return u.connector.AuthCodeURL(state), nil
}

func (u *inboxUsecase) HandleCallback(ctx context.Context, code, state string) (string, error) {
	if code == "" {
		return "", apperr.InvalidInput("missing authorization code")
	}
	userID, err := u.signer.VerifyState(state)
	if err != nil {
		return "", err
	}

	token, err := u.connector.Exchange(ctx, code)
	if err != nil {
		return "", apperr.Upstream("failed to exchange authorization code", err)
	}
	token.UserID = userID

	mailbox, err := u.connector.Open(ctx, token, nil)
	if err != nil {
		return "", apperr.Upstream("failed to open mailbox", err)
	}

	email, err := mailbox.ProfileEmail(ctx)
	if err != nil {
		return "", apperr.Upstream("failed to read mailbox profile", err)
	}
	token.EmailAddress = email

	if err := u.tokenRepo.Save(token); err != nil {
		return "", apperr.Storage("failed to save mailbox credential", err)
	}
	if err := u.syncStateRepo.Ensure(userID); err != nil {
		return "", apperr.Storage("failed to create sync state", err)
	}

	if topic := u.config.PubSubTopicName(); topic != "" {
		// Push is an optimization over manual and scheduled sync.
		historyID, err := mailbox.Watch(ctx, topic)
		if err != nil {
			u.logger.Warn("[Gmail] watch registration failed", "user_id", userID, "error", err)
		} else if err := u.syncStateRepo.SaveHistoryID(userID, historyID); err != nil {
			u.logger.Warn("[Gmail] failed to save history id", "user_id", userID, "error", err)
		}
	}

	u.logger.Info("[Gmail] mailbox connected", "user_id", userID, "email", email)
	return userID, nil
}

func (u *inboxUsecase) SyncAll(ctx context.Context) (int, int) {
	tokens, err := u.tokenRepo.FindAll()
	if err != nil {
		u.logger.Error("[Sync] failed to list connected mailboxes", "error", err)
		return 0, 0
	}

	synced, failed := 0, 0
	for _, t := range tokens {
		if ctx.Err() != nil {
			break
		}
		if _, err := u.SyncThreads(ctx, t.UserID, SyncOptions{}); err != nil {
			failed++
			u.logger.Warn("[Sync] scheduled sync failed", "user_id", t.UserID, "code", apperr.CodeOf(err), "error", err)
			continue
		}
		synced++
	}
	return synced, failed
}

func (u *inboxUsecase) HandlePushNotification(ctx context.Context, emailAddress string, historyID uint64) error {
	tokens, err := u.tokenRepo.FindByEmail(strings.TrimSpace(emailAddress))
	if err != nil {
		return apperr.Storage("failed to load mailbox credential", err)
	}
	if len(tokens) == 0 {
		return apperr.New(apperr.CodeNotConnected, "no connected mailbox for "+emailAddress)
	}

	// Every account connected to the mailbox gets the update. Failures are
	// joined so one broken account does not hide the others.
	var errs []error
	for _, token := range tokens {
		if historyID > 0 {
			if err := u.syncStateRepo.SaveHistoryID(token.UserID, historyID); err != nil {
				errs = append(errs, apperr.Storage("failed to save history id", err))
				continue
			}
		}
		if _, err := u.SyncThreads(ctx, token.UserID, SyncOptions{}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (u *inboxUsecase) persistToken(token *domain.GoogleToken) error {
	return u.tokenRepo.Save(token)
}
