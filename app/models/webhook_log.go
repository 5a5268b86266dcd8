package models

import "time"

const (
	WebhookLogReceived  = "received"
	WebhookLogProcessed = "processed"
	WebhookLogFailed    = "failed"
	WebhookLogTimeout   = "timeout"
)

// WebhookLog is a best-effort observational record of webhook processing.
// Failures to write it must never abort event handling.
type WebhookLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StripeEventID string    `gorm:"type:varchar(191);not null;default:'';index" json:"stripe_event_id"`
	EventType     string    `gorm:"type:varchar(100);not null;default:''" json:"event_type"`
	Status        string    `gorm:"type:varchar(20);not null;index" json:"status"`
	Metadata      string    `gorm:"type:text" json:"metadata"`
	DurationMs    int64     `gorm:"not null;default:0" json:"duration_ms"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
