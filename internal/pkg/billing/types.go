package billing

import "time"

// Event is the provider-neutral, typed form of an inbound webhook event.
// Each lifecycle event is its own variant so the service dispatch is an
// exhaustive type switch; new event types are a compile-visible addition.
type Event interface {
	EventID() string
	EventName() string
}

type eventHeader struct {
	ID   string
	Type string
}

func (h eventHeader) EventID() string   { return h.ID }
func (h eventHeader) EventName() string { return h.Type }

// CheckoutCompleted corresponds to checkout.session.completed.
type CheckoutCompleted struct {
	eventHeader
	UserID         uint
	CustomerID     string
	SubscriptionID string
	AmountCents    int64
	Currency       string
}

// SubscriptionUpdated corresponds to customer.subscription.updated.
type SubscriptionUpdated struct {
	eventHeader
	CustomerID        string
	SubscriptionID    string
	PriceID           string
	ProviderStatus    string
	CancelAtPeriodEnd bool
	PeriodStart       *time.Time
	PeriodEnd         *time.Time
}

// SubscriptionDeleted corresponds to customer.subscription.deleted.
type SubscriptionDeleted struct {
	eventHeader
	CustomerID     string
	SubscriptionID string
}

// PaymentFailed corresponds to invoice.payment_failed.
type PaymentFailed struct {
	eventHeader
	CustomerID     string
	SubscriptionID string
	AmountCents    int64
	Currency       string
}

// PaymentSucceeded corresponds to invoice.payment_succeeded.
type PaymentSucceeded struct {
	eventHeader
	CustomerID     string
	SubscriptionID string
	AmountCents    int64
	Currency       string
}

// UnhandledEvent covers every other event type. It is acknowledged without
// side effects.
type UnhandledEvent struct {
	eventHeader
}

// SubscriptionDetails is the slice of a provider subscription object the
// state writer needs: the billed price and the current period boundaries.
type SubscriptionDetails struct {
	PriceID           string
	Status            string
	CancelAtPeriodEnd bool
	PeriodStart       *time.Time
	PeriodEnd         *time.Time
}
