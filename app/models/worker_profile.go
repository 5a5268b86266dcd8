package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	AvailabilityFullTime = "full_time"
	AvailabilityPartTime = "part_time"
	AvailabilityFlexible = "flexible"
)

// WorkerProfile is the public-facing profile a worker exposes to employers.
// Boosted profiles are ordered first in search results; the boost flag is
// driven by the billing entitlement propagation, never set directly.
type WorkerProfile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Trade          string         `gorm:"type:varchar(100);not null;index" json:"trade" validate:"required,min=2,max=100"`
	Headline       string         `gorm:"type:varchar(200);default:''" json:"headline" validate:"max=200"`
	Bio            string         `gorm:"type:text" json:"bio" validate:"max=2000"`
	Skills         string         `gorm:"type:text;not null;default:''" json:"skills"`
	City           string         `gorm:"type:varchar(100);not null;index" json:"city" validate:"required,min=2,max=100"`
	HourlyRateMin  int            `gorm:"not null;default:0" json:"hourly_rate_min" validate:"gte=0"`
	HourlyRateMax  int            `gorm:"not null;default:0" json:"hourly_rate_max" validate:"gte=0"`
	YearsOfExp     int            `gorm:"not null;default:0" json:"years_of_experience" validate:"gte=0,lte=60"`
	Availability   string         `gorm:"type:varchar(20);not null;default:'flexible'" json:"availability" validate:"oneof=full_time part_time flexible"`
	Visible        bool           `gorm:"not null;default:true;index" json:"visible"`
	Boosted        bool           `gorm:"not null;default:false;index" json:"boosted"`
	BoostExpiresAt *time.Time     `gorm:"type:timestamp;default:null" json:"boost_expires_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (wp *WorkerProfile) Validate() error {
	v := validator.New()

	return v.Struct(wp)
}

// SkillList splits the comma-separated skills column into trimmed entries.
func (wp *WorkerProfile) SkillList() []string {
	return SplitSkills(wp.Skills)
}

// SetSkills normalizes and stores a skill list into the skills column.
func (wp *WorkerProfile) SetSkills(skills []string) {
	cleaned := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		cleaned = append(cleaned, s)
	}
	wp.Skills = strings.Join(cleaned, ",")
}

// IsBoostActive reports whether the profile boost currently applies.
// A nil expiry means the boost runs for the life of the subscription.
func (wp *WorkerProfile) IsBoostActive(now time.Time) bool {
	if !wp.Boosted {
		return false
	}
	if wp.BoostExpiresAt == nil {
		return true
	}
	return wp.BoostExpiresAt.After(now)
}

// SplitSkills parses a comma-separated skill string into trimmed lowercase entries.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
