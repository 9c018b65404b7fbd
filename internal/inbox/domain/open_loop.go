package domain

import "time"

type LoopStatus string

const (
	StatusOK      LoopStatus = "ok"
	StatusDue     LoopStatus = "due"
	StatusOverdue LoopStatus = "overdue"
)

const SourceInbox = "inbox"

// OpenLoop is a derived view over a Thread; it is never persisted.
type OpenLoop struct {
	ThreadID       string     `json:"thread_id"`
	Subject        string     `json:"subject"`
	LastOutboundAt *time.Time `json:"last_outbound_at"`
	LastInboundAt  *time.Time `json:"last_inbound_at"`
	DaysSince      *int       `json:"days_since"`
	Status         LoopStatus `json:"status"`
	Source         string     `json:"source"`
}

type LoopSummary struct {
	Total   int `json:"total"`
	Due     int `json:"due"`
	Overdue int `json:"overdue"`
	Snoozed int `json:"snoozed"`
}
