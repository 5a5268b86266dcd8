package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	ApplicationStatusSubmitted = "submitted"
	ApplicationStatusReviewed  = "reviewed"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
)

// JobApplication links a worker to a job. A worker can apply to a job once;
// the unique (job_id, worker_id) index is the arbiter.
type JobApplication struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	JobID     uint           `gorm:"not null;index:ux_job_applications_job_worker,unique,priority:1" json:"job_id"`
	WorkerID  uint           `gorm:"not null;index:ux_job_applications_job_worker,unique,priority:2;index" json:"worker_id"`
	CoverNote string         `gorm:"type:text" json:"cover_note" validate:"max=2000"`
	Status    string         `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status" validate:"oneof=submitted reviewed accepted rejected"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *JobApplication) Validate() error {
	v := validator.New()

	return v.Struct(a)
}
