package models

import "time"

const (
	PlanTypeMonthly = "monthly"
	PlanTypeAnnual  = "annual"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription mirrors the provider-side subscription for a user. There is at
// most one logical row per user (upserted by user id); cancellation flips the
// status instead of deleting the row.
type Subscription struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	StripeCustomerID     string    `gorm:"type:varchar(191);not null;index" json:"stripe_customer_id"`
	StripeSubscriptionID string    `gorm:"type:varchar(191);not null;index" json:"stripe_subscription_id"`
	StripePriceID        string    `gorm:"type:varchar(191);not null" json:"stripe_price_id"`
	PlanType             string    `gorm:"type:varchar(20);not null" json:"plan_type"`
	Status               string    `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	CurrentPeriodStart   time.Time `gorm:"type:timestamp;not null" json:"current_period_start"`
	CurrentPeriodEnd     time.Time `gorm:"type:timestamp;not null" json:"current_period_end"`
	CancelAtPeriodEnd    bool      `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
