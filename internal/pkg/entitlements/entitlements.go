package entitlements

import (
	"github.com/craftmatch/CraftMatch/app/models"
)

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// UnlimitedJobs marks a plan without a concurrent-posting cap.
const UnlimitedJobs = -1

// EffectiveTier computes the access tier for a user. Lifetime access always
// wins over the subscription projection.
func EffectiveTier(u *models.User) Tier {
	if u == nil {
		return TierFree
	}
	if u.LifetimeAccess || u.SubscriptionStatus == models.SubscriptionPro {
		return TierPro
	}
	return TierFree
}

// MaxOpenJobs returns how many jobs an employer may keep open at once.
func MaxOpenJobs(tier Tier) int {
	if tier == TierPro {
		return UnlimitedJobs
	}
	return 1
}

// BoostEligible reports whether the role participates in profile boosting.
// Only workers have a searchable profile to boost.
func BoostEligible(role string) bool {
	return role == models.ROLE_WORKER
}
