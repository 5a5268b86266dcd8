package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	// ErrNoSignature means the signature header was absent entirely.
	ErrNoSignature = errors.New("no webhook signature")
	// ErrInvalidSignature means the header was present but did not verify.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// VerifyAndParseStripeEvent authenticates a raw webhook payload against the
// shared secret and decodes it into a typed Event. Verification failures
// carry no side effects; both error classes map to a 400 at the edge.
func VerifyAndParseStripeEvent(payload []byte, signatureHeader, secret string) (Event, error) {
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, ErrNoSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, ErrInvalidSignature
	}

	return parseStripeEvent(&event)
}

type stripeCheckoutSession struct {
	ID              string            `json:"id"`
	Mode            string            `json:"mode"`
	Customer        string            `json:"customer"`
	Subscription    string            `json:"subscription"`
	ClientReference string            `json:"client_reference_id"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	Metadata        map[string]string `json:"metadata"`
}

type stripeSubscription struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	Status             string `json:"status"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type stripeInvoice struct {
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
	AmountDue    int64  `json:"amount_due"`
	AmountPaid   int64  `json:"amount_paid"`
	Currency     string `json:"currency"`
}

func parseStripeEvent(event *stripe.Event) (Event, error) {
	header := eventHeader{ID: event.ID, Type: string(event.Type)}

	switch event.Type {
	case "checkout.session.completed":
		var session stripeCheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("decode checkout.session: %w", err)
		}
		return CheckoutCompleted{
			eventHeader:    header,
			UserID:         sessionUserID(session),
			CustomerID:     strings.TrimSpace(session.Customer),
			SubscriptionID: strings.TrimSpace(session.Subscription),
			AmountCents:    session.AmountTotal,
			Currency:       strings.ToLower(strings.TrimSpace(session.Currency)),
		}, nil

	case "customer.subscription.updated":
		var sub stripeSubscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		return SubscriptionUpdated{
			eventHeader:       header,
			CustomerID:        strings.TrimSpace(sub.Customer),
			SubscriptionID:    strings.TrimSpace(sub.ID),
			PriceID:           firstPriceID(sub),
			ProviderStatus:    strings.ToLower(strings.TrimSpace(sub.Status)),
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
			PeriodStart:       unixTime(sub.CurrentPeriodStart),
			PeriodEnd:         unixTime(sub.CurrentPeriodEnd),
		}, nil

	case "customer.subscription.deleted":
		var sub stripeSubscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		return SubscriptionDeleted{
			eventHeader:    header,
			CustomerID:     strings.TrimSpace(sub.Customer),
			SubscriptionID: strings.TrimSpace(sub.ID),
		}, nil

	case "invoice.payment_failed":
		var inv stripeInvoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		return PaymentFailed{
			eventHeader:    header,
			CustomerID:     strings.TrimSpace(inv.Customer),
			SubscriptionID: strings.TrimSpace(inv.Subscription),
			AmountCents:    inv.AmountDue,
			Currency:       strings.ToLower(strings.TrimSpace(inv.Currency)),
		}, nil

	case "invoice.payment_succeeded":
		var inv stripeInvoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		return PaymentSucceeded{
			eventHeader:    header,
			CustomerID:     strings.TrimSpace(inv.Customer),
			SubscriptionID: strings.TrimSpace(inv.Subscription),
			AmountCents:    inv.AmountPaid,
			Currency:       strings.ToLower(strings.TrimSpace(inv.Currency)),
		}, nil

	default:
		return UnhandledEvent{eventHeader: header}, nil
	}
}

// sessionUserID extracts the local user linkage from a checkout session.
// Checkout sessions are created server-side with client_reference_id set to
// the local user id; metadata.user_id is a backstop for older sessions.
func sessionUserID(session stripeCheckoutSession) uint {
	ref := strings.TrimSpace(session.ClientReference)
	if ref == "" && session.Metadata != nil {
		ref = strings.TrimSpace(session.Metadata["user_id"])
	}
	if ref == "" {
		return 0
	}
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func firstPriceID(sub stripeSubscription) string {
	for _, item := range sub.Items.Data {
		if id := strings.TrimSpace(item.Price.ID); id != "" {
			return id
		}
	}
	return ""
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
