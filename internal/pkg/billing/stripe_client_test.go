package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

func TestResolveSubscription_MapsSDKFields(t *testing.T) {
	periodStart := int64(1717200000)
	periodEnd := int64(1719792000)

	client := &StripeClient{
		secretKey: "sk_test_123",
		getSubscription: func(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
			assert.Equal(t, "sub_123", id)
			return &stripe.Subscription{
				Status:            stripe.SubscriptionStatusActive,
				CancelAtPeriodEnd: true,
				Items: &stripe.SubscriptionItemList{
					Data: []*stripe.SubscriptionItem{
						{
							Price:              &stripe.Price{ID: " price_monthly "},
							CurrentPeriodStart: periodStart,
							CurrentPeriodEnd:   periodEnd,
						},
					},
				},
			}, nil
		},
	}

	details, err := client.ResolveSubscription(context.Background(), "sub_123")
	require.NoError(t, err)

	assert.Equal(t, "price_monthly", details.PriceID)
	assert.Equal(t, "active", details.Status)
	assert.True(t, details.CancelAtPeriodEnd)
	require.NotNil(t, details.PeriodStart)
	require.NotNil(t, details.PeriodEnd)
	assert.Equal(t, time.Unix(periodStart, 0).UTC(), *details.PeriodStart)
	assert.Equal(t, time.Unix(periodEnd, 0).UTC(), *details.PeriodEnd)
}

func TestResolveSubscription_NoItems(t *testing.T) {
	client := &StripeClient{
		secretKey: "sk_test_123",
		getSubscription: func(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
			return &stripe.Subscription{Status: stripe.SubscriptionStatusCanceled}, nil
		},
	}

	details, err := client.ResolveSubscription(context.Background(), "sub_456")
	require.NoError(t, err)

	assert.Empty(t, details.PriceID)
	assert.Equal(t, "canceled", details.Status)
	assert.Nil(t, details.PeriodStart)
	assert.Nil(t, details.PeriodEnd)
}

func TestResolveSubscription_Errors(t *testing.T) {
	client := &StripeClient{secretKey: "sk_test_123"}
	client.getSubscription = func(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
		return nil, errors.New("no such subscription")
	}

	_, err := client.ResolveSubscription(context.Background(), "sub_789")
	assert.ErrorContains(t, err, "no such subscription")

	_, err = client.ResolveSubscription(context.Background(), "  ")
	assert.ErrorContains(t, err, "subscription id is required")

	unconfigured := &StripeClient{}
	_, err = unconfigured.ResolveSubscription(context.Background(), "sub_789")
	assert.ErrorContains(t, err, "STRIPE_SECRET_KEY")
}
