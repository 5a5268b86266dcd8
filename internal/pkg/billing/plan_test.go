package billing

import (
	"errors"
	"testing"

	"github.com/craftmatch/CraftMatch/app/models"
)

func TestPlanResolver_Resolve(t *testing.T) {
	r := NewPlanResolver("price_m", "price_a")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "price_m", want: models.PlanTypeMonthly},
		{in: "price_a", want: models.PlanTypeAnnual},
		{in: " price_m ", want: models.PlanTypeMonthly},
		{in: "price_other", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := r.Resolve(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPrice) {
				t.Fatalf("Resolve(%q) error = %v, want ErrUnknownPrice", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlanResolver_UnconfiguredNeverMatchesEmpty(t *testing.T) {
	r := NewPlanResolver("", "")
	if _, err := r.Resolve(""); !errors.Is(err, ErrUnknownPrice) {
		t.Fatalf("empty resolver must not resolve empty price ids")
	}
}

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "active", want: models.SubscriptionStatusActive},
		{in: "trialing", want: models.SubscriptionStatusActive},
		{in: "past_due", want: models.SubscriptionStatusPastDue},
		{in: "unpaid", want: models.SubscriptionStatusPastDue},
		{in: "canceled", want: models.SubscriptionStatusCanceled},
		{in: "incomplete_expired", want: models.SubscriptionStatusCanceled},
		{in: "something_new", want: models.SubscriptionStatusPastDue},
	}

	for _, tt := range tests {
		if got := mapProviderStatus(tt.in); got != tt.want {
			t.Fatalf("mapProviderStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
