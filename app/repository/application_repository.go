package repository

import (
	"github.com/craftmatch/CraftMatch/app/models"
	"gorm.io/gorm"
)

// applicationRepository implements the ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository instance
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts a new application. The unique (job_id, worker_id) index
// rejects a second application from the same worker.
func (r *applicationRepository) Create(application *models.JobApplication) error {
	return r.db.Create(application).Error
}

// GetByID retrieves an application by its ID
func (r *applicationRepository) GetByID(id uint) (*models.JobApplication, error) {
	var application models.JobApplication
	err := r.db.First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// GetByJobAndWorker retrieves a worker's application to a specific job
func (r *applicationRepository) GetByJobAndWorker(jobID, workerID uint) (*models.JobApplication, error) {
	var application models.JobApplication
	err := r.db.Where("job_id = ? AND worker_id = ?", jobID, workerID).First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// GetByJobID retrieves all applications for a job, newest first
func (r *applicationRepository) GetByJobID(jobID uint) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := r.db.Where("job_id = ?", jobID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

// GetByWorkerID retrieves a paginated list of a worker's applications
func (r *applicationRepository) GetByWorkerID(workerID uint, offset, limit int) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := r.db.Where("worker_id = ?", workerID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&applications).Error
	return applications, err
}

// Update updates an existing application
func (r *applicationRepository) Update(application *models.JobApplication) error {
	return r.db.Save(application).Error
}

// Count returns the total number of applications
func (r *applicationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.JobApplication{}).Count(&count).Error
	return count, err
}

// CountByJobID returns the number of applications for a job
func (r *applicationRepository) CountByJobID(jobID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.JobApplication{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}
