package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	stripesub "github.com/stripe/stripe-go/v82/subscription"

	"github.com/craftmatch/CraftMatch/internal/pkg/env"
)

// SubscriptionResolver fetches provider-side subscription details. Checkout
// sessions reference a subscription by id only; the price and billing period
// live on the subscription object itself.
type SubscriptionResolver interface {
	ResolveSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error)
}

// StripeClient resolves subscriptions through the Stripe SDK.
type StripeClient struct {
	secretKey string

	// getSubscription is swapped out in tests.
	getSubscription func(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
}

func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		secretKey:       strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		getSubscription: stripesub.Get,
	}
}

func (c *StripeClient) ResolveSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error) {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return nil, errors.New("subscription id is required")
	}
	if c.secretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is not configured")
	}

	stripe.Key = c.secretKey
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := c.getSubscription(id, params)
	if err != nil {
		return nil, fmt.Errorf("fetch subscription %s: %w", id, err)
	}

	details := &SubscriptionDetails{
		Status:            strings.ToLower(strings.TrimSpace(string(sub.Status))),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}

	// The billed price and the period boundaries live on the subscription
	// items; the first priced item wins.
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item == nil {
				continue
			}
			if details.PriceID == "" && item.Price != nil {
				details.PriceID = strings.TrimSpace(item.Price.ID)
			}
			if details.PeriodStart == nil {
				details.PeriodStart = unixTime(item.CurrentPeriodStart)
				details.PeriodEnd = unixTime(item.CurrentPeriodEnd)
			}
		}
	}

	return details, nil
}
