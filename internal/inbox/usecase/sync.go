package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"looppilot/internal/inbox/domain"
	"looppilot/internal/inbox/dto"
	"looppilot/pkg/apperr"
)

const (
	threadsPerPage = 100

	// Hard limits for a single pass, whatever the caller or config asks for.
	MaxSyncPages    = 50
	MaxLookbackDays = 365

	maxSubjectRunes = 255
	maxSnippetRunes = 500
)

// SyncQuery is the Gmail search used to find threads the user took part in.
func SyncQuery(lookbackDays int) string {
	return fmt.Sprintf("from:me -in:chats -in:drafts newer_than:%dd", lookbackDays)
}

func (u *inboxUsecase) SyncThreads(ctx context.Context, userID string, opts SyncOptions) (*dto.SyncResponse, error) {
	startedAt := u.now().UTC()

	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = u.config.SyncLookbackDays
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = u.config.SyncMaxPages
	}
	maxPages = min(maxPages, MaxSyncPages)
	lookback = min(lookback, MaxLookbackDays)

	token, err := u.tokenRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Storage("failed to load mailbox credential", err)
	}
	if token == nil {
		return nil, apperr.New(apperr.CodeNotConnected, "Connect Google first.")
	}

	mailbox, err := u.connector.Open(ctx, token, u.persistToken)
	if err != nil {
		return nil, apperr.Upstream("failed to open mailbox", err)
	}

	query := SyncQuery(lookback)
	indexed := 0
	pageToken := ""
	for page := 0; page < maxPages; page++ {
		resp, err := mailbox.ListThreads(ctx, query, pageToken, threadsPerPage)
		if err != nil {
			return nil, apperr.Upstream("failed to list threads", err)
		}

		for _, ref := range resp.Threads {
			thread, err := mailbox.GetThread(ctx, ref.ID)
			if err != nil {
				return nil, apperr.Upstream("failed to fetch thread", err)
			}

			record := BuildThreadRecord(userID, token.EmailAddress, ref, thread)
			if err := u.threadRepo.Upsert(record); err != nil {
				return nil, apperr.Storage("failed to save thread", err)
			}
			indexed++
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if err := u.syncStateRepo.MarkSynced(userID, u.now()); err != nil {
		return nil, apperr.Storage("failed to save sync state", err)
	}

	u.logger.Info("[Sync] completed", "user_id", userID, "indexed_threads", indexed, "duration", time.Since(startedAt))

	return &dto.SyncResponse{
		StartedAt:      startedAt,
		IndexedThreads: indexed,
	}, nil
}

// BuildThreadRecord derives the stored row for one fetched thread. The last
// outbound and inbound timestamps are the latest dates seen in each
// direction, independent of message order.
func BuildThreadRecord(userID, account string, ref domain.ThreadRef, thread *domain.MailboxThread) *domain.Thread {
	record := &domain.Thread{
		UserID:   userID,
		ThreadID: ref.ID,
	}

	snippet := ref.Snippet
	if thread != nil {
		if thread.ID != "" {
			record.ThreadID = thread.ID
		}
		if thread.Snippet != "" {
			snippet = thread.Snippet
		}

		for _, m := range thread.Messages {
			if record.Subject == "" {
				record.Subject = strings.TrimSpace(m.Subject)
			}
			if m.Date.IsZero() {
				continue
			}
			at := m.Date.UTC()
			if domain.IsOutbound(m.From, account, m.LabelIDs) {
				record.LastOutboundAt = later(record.LastOutboundAt, at)
			} else {
				record.LastInboundAt = later(record.LastInboundAt, at)
			}
		}
	}

	record.Subject = truncateRunes(record.Subject, maxSubjectRunes)
	record.Snippet = truncateRunes(html.UnescapeString(snippet), maxSnippetRunes)
	return record
}

func later(cur *time.Time, t time.Time) *time.Time {
	if cur == nil || t.After(*cur) {
		return &t
	}
	return cur
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
