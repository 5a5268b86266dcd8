package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	JobStatusOpen   = "open"
	JobStatusFilled = "filled"
	JobStatusClosed = "closed"
)

// Job is an employer-owned posting looking for a skilled-trade worker.
type Job struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	EmployerID     uint           `gorm:"not null;index" json:"employer_id"`
	Title          string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=5,max=200"`
	Description    string         `gorm:"type:text;not null" json:"description" validate:"required,min=20"`
	Trade          string         `gorm:"type:varchar(100);not null;index" json:"trade" validate:"required,min=2,max=100"`
	RequiredSkills string         `gorm:"type:text;not null;default:''" json:"required_skills"`
	City           string         `gorm:"type:varchar(100);not null;index" json:"city" validate:"required,min=2,max=100"`
	HourlyRateMin  int            `gorm:"not null;default:0" json:"hourly_rate_min" validate:"gte=0"`
	HourlyRateMax  int            `gorm:"not null;default:0" json:"hourly_rate_max" validate:"gte=0"`
	MinYearsOfExp  int            `gorm:"not null;default:0" json:"min_years_of_experience" validate:"gte=0,lte=60"`
	Status         string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status" validate:"oneof=open filled closed"`
	ViewCount      int64          `gorm:"not null;default:0" json:"view_count"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (j *Job) Validate() error {
	v := validator.New()

	return v.Struct(j)
}

// SkillList splits the required skills column into trimmed entries.
func (j *Job) SkillList() []string {
	return SplitSkills(j.RequiredSkills)
}

// IsOpen reports whether the job still accepts applications.
func (j *Job) IsOpen() bool {
	return j.Status == JobStatusOpen
}
