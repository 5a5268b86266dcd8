package repository

import (
	"time"

	"github.com/craftmatch/CraftMatch/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	CountByRole(role string) (int64, error)
}

// WorkerProfileRepository defines the interface for worker profile operations
type WorkerProfileRepository interface {
	Upsert(profile *models.WorkerProfile) error
	GetByUserID(userID uint) (*models.WorkerProfile, error)
	Search(filter WorkerSearchFilter) ([]models.WorkerProfile, error)
	ListVisibleByTrade(trade string) ([]models.WorkerProfile, error)
	Count() (int64, error)
	CountBoosted() (int64, error)
}

// JobRepository defines the interface for job posting operations
type JobRepository interface {
	Create(job *models.Job) error
	GetByUUID(uuid string) (*models.Job, error)
	GetByEmployerID(employerID uint, offset, limit int) ([]models.Job, error)
	Update(job *models.Job) error
	Delete(id uint) error
	List(filter JobSearchFilter) ([]models.Job, error)
	Count() (int64, error)
	CountOpen() (int64, error)
	CountOpenByEmployerID(employerID uint) (int64, error)
}

// ApplicationRepository defines the interface for job application operations
type ApplicationRepository interface {
	Create(application *models.JobApplication) error
	GetByID(id uint) (*models.JobApplication, error)
	GetByJobAndWorker(jobID, workerID uint) (*models.JobApplication, error)
	GetByJobID(jobID uint) ([]models.JobApplication, error)
	GetByWorkerID(workerID uint, offset, limit int) ([]models.JobApplication, error)
	Update(application *models.JobApplication) error
	Count() (int64, error)
	CountByJobID(jobID uint) (int64, error)
}

// WorkerSearchFilter narrows a worker profile search. Zero values are ignored.
type WorkerSearchFilter struct {
	Trade    string
	City     string
	Skill    string
	MinYears int
	MaxRate  int
	Offset   int
	Limit    int
}

// JobSearchFilter narrows a job listing. Zero values are ignored.
type JobSearchFilter struct {
	Trade  string
	City   string
	Status string
	Since  *time.Time
	Offset int
	Limit  int
}

// Repositories struct holds all repository instances
type Repositories struct {
	User          UserRepository
	WorkerProfile WorkerProfileRepository
	Job           JobRepository
	Application   ApplicationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		WorkerProfile: NewWorkerProfileRepository(db),
		Job:           NewJobRepository(db),
		Application:   NewApplicationRepository(db),
	}
}
