package api

import (
	authDomain "looppilot/internal/auth/domain"
	billingDomain "looppilot/internal/billing/domain"
	inboxDomain "looppilot/internal/inbox/domain"
	sequenceDomain "looppilot/internal/sequence/domain"
)

// Models lists every table the server owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&authDomain.User{},
		&authDomain.RefreshToken{},
		&inboxDomain.GoogleToken{},
		&inboxDomain.Thread{},
		&inboxDomain.SyncState{},
		&billingDomain.UsageEvent{},
		&sequenceDomain.Template{},
		&sequenceDomain.Sequence{},
	}
}
