package usecase

import (
	"sort"
	"time"

	"looppilot/internal/inbox/domain"
	"looppilot/pkg/datewindow"
)

const (
	DefaultMinDays = 3
	DefaultMaxDays = 7
)

// Classify turns indexed threads into open loops. A thread is an open loop
// only when the user sent the last message; it is due when the days since
// that message fall within [minDays, maxDays] and overdue past maxDays.
// Threads with status ok are dropped. The result is ordered by days since
// the last outbound message, largest first, keeping input order on ties.
func Classify(rows []*domain.Thread, minDays, maxDays int, now time.Time) ([]domain.OpenLoop, domain.LoopSummary) {
	items := make([]domain.OpenLoop, 0)
	for _, r := range rows {
		loop := classifyOne(r, minDays, maxDays, now)
		if loop.Status == domain.StatusOK {
			continue
		}
		items = append(items, loop)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return daysOf(items[i]) > daysOf(items[j])
	})

	summary := domain.LoopSummary{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case domain.StatusDue:
			summary.Due++
		case domain.StatusOverdue:
			summary.Overdue++
		}
	}
	return items, summary
}

func classifyOne(r *domain.Thread, minDays, maxDays int, now time.Time) domain.OpenLoop {
	loop := domain.OpenLoop{
		ThreadID:       r.ThreadID,
		Subject:        r.Subject,
		LastOutboundAt: r.LastOutboundAt,
		LastInboundAt:  r.LastInboundAt,
		Status:         domain.StatusOK,
		Source:         domain.SourceInbox,
	}
	if r.LastOutboundAt == nil {
		return loop
	}

	days := datewindow.DaysBetween(*r.LastOutboundAt, now)
	loop.DaysSince = &days

	userLastSentLast := r.LastInboundAt == nil || r.LastOutboundAt.After(*r.LastInboundAt)
	if !userLastSentLast {
		return loop
	}

	switch {
	case days > maxDays:
		loop.Status = domain.StatusOverdue
	case days >= minDays:
		loop.Status = domain.StatusDue
	}
	return loop
}

func daysOf(l domain.OpenLoop) int {
	if l.DaysSince == nil {
		return 0
	}
	return *l.DaysSince
}
