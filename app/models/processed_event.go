package models

import "time"

// ProcessedEvent is the idempotency ledger for webhook deliveries. The unique
// event id constraint — not the pre-check — is the arbiter under concurrent
// duplicate delivery: at most one insert wins.
type ProcessedEvent struct {
	StripeEventID string    `gorm:"type:varchar(191);primaryKey" json:"stripe_event_id"`
	EventType     string    `gorm:"type:varchar(100);not null" json:"event_type"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
