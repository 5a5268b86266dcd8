package repository

import (
	"strings"

	"github.com/craftmatch/CraftMatch/app/models"
	"gorm.io/gorm"
)

// jobRepository implements the JobRepository interface
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create creates a new job posting in the database
func (r *jobRepository) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

// GetByUUID retrieves a job by its public UUID
func (r *jobRepository) GetByUUID(uuid string) (*models.Job, error) {
	var job models.Job
	err := r.db.Where("uuid = ?", uuid).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetByEmployerID retrieves a paginated list of an employer's jobs
func (r *jobRepository) GetByEmployerID(employerID uint, offset, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("employer_id = ?", employerID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// Update updates an existing job posting
func (r *jobRepository) Update(job *models.Job) error {
	return r.db.Save(job).Error
}

// Delete soft deletes a job by its ID
func (r *jobRepository) Delete(id uint) error {
	return r.db.Delete(&models.Job{}, id).Error
}

// List retrieves jobs matching the filter, newest first
func (r *jobRepository) List(filter JobSearchFilter) ([]models.Job, error) {
	query := r.db.Model(&models.Job{})

	if trade := strings.TrimSpace(filter.Trade); trade != "" {
		query = query.Where("LOWER(trade) = LOWER(?)", trade)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var jobs []models.Job
	err := query.Order("created_at DESC").Offset(filter.Offset).Limit(limit).Find(&jobs).Error
	return jobs, err
}

// Count returns the total number of jobs
func (r *jobRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Job{}).Count(&count).Error
	return count, err
}

// CountOpen returns the number of jobs currently accepting applications
func (r *jobRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen).Count(&count).Error
	return count, err
}

// CountOpenByEmployerID returns how many open jobs an employer currently has.
// The free-tier posting cap is enforced against this count.
func (r *jobRepository) CountOpenByEmployerID(employerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Job{}).
		Where("employer_id = ? AND status = ?", employerID, models.JobStatusOpen).
		Count(&count).Error
	return count, err
}
