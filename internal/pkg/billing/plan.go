package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/internal/pkg/env"
)

// ErrUnknownPrice marks a price id outside the two configured tiers. The data
// model has no "unknown" plan state, so ambiguity must fail the event rather
// than default.
var ErrUnknownPrice = errors.New("price id does not match a configured plan")

// PlanResolver maps the two configured Stripe price ids to plan types.
type PlanResolver struct {
	monthlyPriceID string
	annualPriceID  string
}

func NewPlanResolver(monthlyPriceID, annualPriceID string) *PlanResolver {
	return &PlanResolver{
		monthlyPriceID: strings.TrimSpace(monthlyPriceID),
		annualPriceID:  strings.TrimSpace(annualPriceID),
	}
}

func NewPlanResolverFromEnv() *PlanResolver {
	return NewPlanResolver(
		env.GetEnv("STRIPE_PRICE_MONTHLY", ""),
		env.GetEnv("STRIPE_PRICE_ANNUAL", ""),
	)
}

// Resolve returns the plan type for a price id or ErrUnknownPrice.
func (r *PlanResolver) Resolve(priceID string) (string, error) {
	id := strings.TrimSpace(priceID)
	switch {
	case id == "":
		return "", fmt.Errorf("%w: empty price id", ErrUnknownPrice)
	case r.monthlyPriceID != "" && id == r.monthlyPriceID:
		return models.PlanTypeMonthly, nil
	case r.annualPriceID != "" && id == r.annualPriceID:
		return models.PlanTypeAnnual, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPrice, id)
	}
}

// mapProviderStatus collapses Stripe subscription statuses onto the local
// status enum. Unknown statuses land on past_due, never on active.
func mapProviderStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing":
		return models.SubscriptionStatusActive
	case "canceled", "incomplete_expired":
		return models.SubscriptionStatusCanceled
	default:
		return models.SubscriptionStatusPastDue
	}
}
