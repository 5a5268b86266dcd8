package models

import "time"

const (
	HistoryEventCreated          = "created"
	HistoryEventUpdated          = "updated"
	HistoryEventCanceled         = "canceled"
	HistoryEventPaymentFailed    = "payment_failed"
	HistoryEventPaymentSucceeded = "payment_succeeded"
)

// SubscriptionHistory is an append-only trail of subscription lifecycle
// events. Rows are never mutated or deleted.
type SubscriptionHistory struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"not null;index" json:"user_id"`
	StripeSubscriptionID string    `gorm:"type:varchar(191);not null;index" json:"stripe_subscription_id"`
	EventType            string    `gorm:"type:varchar(50);not null" json:"event_type"`
	Status               string    `gorm:"type:varchar(32);not null" json:"status"`
	PlanType             string    `gorm:"type:varchar(20);not null;default:''" json:"plan_type"`
	AmountCents          int64     `gorm:"not null;default:0" json:"amount_cents"`
	Currency             string    `gorm:"type:varchar(10);not null;default:''" json:"currency"`
	Metadata             string    `gorm:"type:text" json:"metadata"`
	CreatedAt            time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
