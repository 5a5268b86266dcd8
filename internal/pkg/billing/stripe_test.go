package billing

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedPayload(t *testing.T, event map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return payload, signed.Header
}

func TestVerifyAndParseStripeEvent_NoSignature(t *testing.T) {
	_, err := VerifyAndParseStripeEvent([]byte(`{}`), "", testWebhookSecret)
	if !errors.Is(err, ErrNoSignature) {
		t.Fatalf("expected ErrNoSignature, got %v", err)
	}
}

func TestVerifyAndParseStripeEvent_InvalidSignature(t *testing.T) {
	payload, _ := signedPayload(t, map[string]any{"id": "evt_1", "type": "checkout.session.completed"})
	_, err := VerifyAndParseStripeEvent(payload, "t=1,v1=deadbeef", testWebhookSecret)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyAndParseStripeEvent_CheckoutCompleted(t *testing.T) {
	payload, header := signedPayload(t, map[string]any{
		"id":   "evt_1",
		"type": "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":                  "cs_1",
				"mode":                "subscription",
				"customer":            "cus_1",
				"subscription":        "sub_1",
				"client_reference_id": "42",
				"amount_total":        1999,
				"currency":            "EUR",
			},
		},
	})

	evt, err := VerifyAndParseStripeEvent(payload, header, testWebhookSecret)
	if err != nil {
		t.Fatalf("VerifyAndParseStripeEvent returned error: %v", err)
	}

	checkout, ok := evt.(CheckoutCompleted)
	if !ok {
		t.Fatalf("expected CheckoutCompleted, got %T", evt)
	}
	if checkout.EventID() != "evt_1" || checkout.UserID != 42 || checkout.CustomerID != "cus_1" {
		t.Fatalf("unexpected event: %+v", checkout)
	}
	if checkout.AmountCents != 1999 || checkout.Currency != "eur" {
		t.Fatalf("unexpected amount fields: %+v", checkout)
	}
}

func TestVerifyAndParseStripeEvent_CheckoutUserIDFromMetadata(t *testing.T) {
	payload, header := signedPayload(t, map[string]any{
		"id":   "evt_2",
		"type": "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"customer":     "cus_1",
				"subscription": "sub_1",
				"metadata":     map[string]any{"user_id": "7"},
			},
		},
	})

	evt, err := VerifyAndParseStripeEvent(payload, header, testWebhookSecret)
	if err != nil {
		t.Fatalf("VerifyAndParseStripeEvent returned error: %v", err)
	}
	if evt.(CheckoutCompleted).UserID != 7 {
		t.Fatalf("expected user id from metadata, got %+v", evt)
	}
}

func TestVerifyAndParseStripeEvent_SubscriptionUpdated(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	payload, header := signedPayload(t, map[string]any{
		"id":   "evt_3",
		"type": "customer.subscription.updated",
		"data": map[string]any{
			"object": map[string]any{
				"id":                   "sub_1",
				"customer":             "cus_1",
				"status":               "Active",
				"cancel_at_period_end": true,
				"current_period_start": start.Unix(),
				"current_period_end":   end.Unix(),
				"items": map[string]any{
					"data": []map[string]any{
						{"price": map[string]any{"id": "price_m"}},
					},
				},
			},
		},
	})

	evt, err := VerifyAndParseStripeEvent(payload, header, testWebhookSecret)
	if err != nil {
		t.Fatalf("VerifyAndParseStripeEvent returned error: %v", err)
	}

	updated, ok := evt.(SubscriptionUpdated)
	if !ok {
		t.Fatalf("expected SubscriptionUpdated, got %T", evt)
	}
	if updated.PriceID != "price_m" || updated.ProviderStatus != "active" || !updated.CancelAtPeriodEnd {
		t.Fatalf("unexpected event: %+v", updated)
	}
	if updated.PeriodStart == nil || !updated.PeriodStart.Equal(start) {
		t.Fatalf("period start = %v, want %v", updated.PeriodStart, start)
	}
	if updated.PeriodEnd == nil || !updated.PeriodEnd.Equal(end) {
		t.Fatalf("period end = %v, want %v", updated.PeriodEnd, end)
	}
}

func TestVerifyAndParseStripeEvent_InvoiceEvents(t *testing.T) {
	payload, header := signedPayload(t, map[string]any{
		"id":   "evt_4",
		"type": "invoice.payment_failed",
		"data": map[string]any{
			"object": map[string]any{
				"customer":     "cus_1",
				"subscription": "sub_1",
				"amount_due":   2500,
				"currency":     "usd",
			},
		},
	})

	evt, err := VerifyAndParseStripeEvent(payload, header, testWebhookSecret)
	if err != nil {
		t.Fatalf("VerifyAndParseStripeEvent returned error: %v", err)
	}
	failed, ok := evt.(PaymentFailed)
	if !ok {
		t.Fatalf("expected PaymentFailed, got %T", evt)
	}
	if failed.AmountCents != 2500 || failed.Currency != "usd" {
		t.Fatalf("unexpected event: %+v", failed)
	}
}

func TestVerifyAndParseStripeEvent_UnhandledType(t *testing.T) {
	payload, header := signedPayload(t, map[string]any{
		"id":   "evt_5",
		"type": "customer.created",
		"data": map[string]any{"object": map[string]any{}},
	})

	evt, err := VerifyAndParseStripeEvent(payload, header, testWebhookSecret)
	if err != nil {
		t.Fatalf("VerifyAndParseStripeEvent returned error: %v", err)
	}
	if _, ok := evt.(UnhandledEvent); !ok {
		t.Fatalf("expected UnhandledEvent, got %T", evt)
	}
}

func TestUnixTime(t *testing.T) {
	if unixTime(0) != nil || unixTime(-5) != nil {
		t.Fatalf("non-positive timestamps must map to nil")
	}
	got := unixTime(1748779200)
	if got == nil || got.Unix() != 1748779200 {
		t.Fatalf("unexpected conversion: %v", got)
	}
}
