package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/craftmatch/CraftMatch/app/models"
)

func TestEffectiveTier(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want Tier
	}{
		{"nil user", nil, TierFree},
		{"free subscriber", &models.User{SubscriptionStatus: models.SubscriptionFree}, TierFree},
		{"pro subscriber", &models.User{SubscriptionStatus: models.SubscriptionPro}, TierPro},
		{"lifetime access on free subscription", &models.User{SubscriptionStatus: models.SubscriptionFree, LifetimeAccess: true}, TierPro},
		{"lifetime access and pro subscription", &models.User{SubscriptionStatus: models.SubscriptionPro, LifetimeAccess: true}, TierPro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveTier(tt.user))
		})
	}
}

func TestMaxOpenJobs(t *testing.T) {
	assert.Equal(t, 1, MaxOpenJobs(TierFree))
	assert.Equal(t, UnlimitedJobs, MaxOpenJobs(TierPro))
}

func TestBoostEligible(t *testing.T) {
	assert.True(t, BoostEligible(models.ROLE_WORKER))
	assert.False(t, BoostEligible(models.ROLE_EMPLOYER))
	assert.False(t, BoostEligible(models.ROLE_ADMIN))
}
