package repository

import (
	"strings"

	"github.com/craftmatch/CraftMatch/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// workerProfileRepository implements the WorkerProfileRepository interface
type workerProfileRepository struct {
	db *gorm.DB
}

// NewWorkerProfileRepository creates a new worker profile repository instance
func NewWorkerProfileRepository(db *gorm.DB) WorkerProfileRepository {
	return &workerProfileRepository{db: db}
}

// Upsert creates the profile or updates the existing row for the same user.
// The unique user_id index keeps one profile per worker.
func (r *workerProfileRepository) Upsert(profile *models.WorkerProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"trade", "headline", "bio", "skills", "city",
			"hourly_rate_min", "hourly_rate_max", "years_of_exp",
			"availability", "visible", "updated_at",
		}),
	}).Create(profile).Error
}

// GetByUserID retrieves the profile belonging to a worker
func (r *workerProfileRepository) GetByUserID(userID uint) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Search lists visible profiles matching the filter, boosted profiles first.
func (r *workerProfileRepository) Search(filter WorkerSearchFilter) ([]models.WorkerProfile, error) {
	query := r.db.Model(&models.WorkerProfile{}).Where("visible = ?", true)

	if trade := strings.TrimSpace(filter.Trade); trade != "" {
		query = query.Where("LOWER(trade) = LOWER(?)", trade)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if skill := strings.ToLower(strings.TrimSpace(filter.Skill)); skill != "" {
		query = query.Where("skills LIKE ?", "%"+skill+"%")
	}
	if filter.MinYears > 0 {
		query = query.Where("years_of_exp >= ?", filter.MinYears)
	}
	if filter.MaxRate > 0 {
		query = query.Where("hourly_rate_min <= ?", filter.MaxRate)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var profiles []models.WorkerProfile
	err := query.
		Order("boosted DESC, years_of_exp DESC, updated_at DESC").
		Offset(filter.Offset).Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

// ListVisibleByTrade returns all visible profiles for a trade. Used by the
// matching endpoint, which scores in memory.
func (r *workerProfileRepository) ListVisibleByTrade(trade string) ([]models.WorkerProfile, error) {
	var profiles []models.WorkerProfile
	err := r.db.
		Where("visible = ? AND LOWER(trade) = LOWER(?)", true, strings.TrimSpace(trade)).
		Find(&profiles).Error
	return profiles, err
}

// Count returns the total number of worker profiles
func (r *workerProfileRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkerProfile{}).Count(&count).Error
	return count, err
}

// CountBoosted returns the number of currently boosted profiles
func (r *workerProfileRepository) CountBoosted() (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkerProfile{}).Where("boosted = ?", true).Count(&count).Error
	return count, err
}
