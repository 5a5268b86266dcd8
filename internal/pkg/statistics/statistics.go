package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/internal/pkg/cache"
	"github.com/craftmatch/CraftMatch/internal/pkg/database"
)

const (
	CacheKeyUsers        = "statistics:users:total"
	CacheKeyWorkers      = "statistics:workers:total"
	CacheKeyEmployers    = "statistics:employers:total"
	CacheKeyJobsOpen     = "statistics:jobs:open"
	CacheKeyJobsDaily    = "statistics:jobs:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyApplications = "statistics:applications:total"
	CacheKeyBoosted      = "statistics:profiles:boosted"
	CacheExpiration      = 30 * time.Minute
)

// StatisticsData holds the marketplace counters exposed by the stats endpoint
type StatisticsData struct {
	TotalUsers        int `json:"total_users"`
	TotalWorkers      int `json:"total_workers"`
	TotalEmployers    int `json:"total_employers"`
	OpenJobs          int `json:"open_jobs"`
	TodayJobs         int `json:"today_jobs"`
	TotalApplications int `json:"total_applications"`
	BoostedProfiles   int `json:"boosted_profiles"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cache refresh interval has elapsed
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the statistics cache when it is stale
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next read to refresh the cache
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recounts all marketplace statistics and stores them in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	counters := []struct {
		key   string
		count func() (int64, error)
	}{
		{CacheKeyUsers, func() (int64, error) {
			var n int64
			return n, db.Model(&models.User{}).Count(&n).Error
		}},
		{CacheKeyWorkers, func() (int64, error) {
			var n int64
			return n, db.Model(&models.User{}).Where("role = ?", models.ROLE_WORKER).Count(&n).Error
		}},
		{CacheKeyEmployers, func() (int64, error) {
			var n int64
			return n, db.Model(&models.User{}).Where("role = ?", models.ROLE_EMPLOYER).Count(&n).Error
		}},
		{CacheKeyJobsOpen, func() (int64, error) {
			var n int64
			return n, db.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen).Count(&n).Error
		}},
		{todayJobsKey(), func() (int64, error) {
			var n int64
			todayStart, todayEnd := todayBounds()
			return n, db.Model(&models.Job{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&n).Error
		}},
		{CacheKeyApplications, func() (int64, error) {
			var n int64
			return n, db.Model(&models.JobApplication{}).Count(&n).Error
		}},
		{CacheKeyBoosted, func() (int64, error) {
			var n int64
			return n, db.Model(&models.WorkerProfile{}).Where("boosted = ?", true).Count(&n).Error
		}},
	}

	for _, c := range counters {
		n, err := c.count()
		if err != nil {
			log.Printf("Error counting %s: %v", c.key, err)
			return err
		}
		if err := cache.Set(c.key, strconv.FormatInt(n, 10), CacheExpiration); err != nil {
			log.Printf("Error caching %s: %v", c.key, err)
			return err
		}
	}

	return nil
}

// GetStatisticsData returns all statistics, refreshing the cache when stale
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalUsers:        cachedCount(CacheKeyUsers),
		TotalWorkers:      cachedCount(CacheKeyWorkers),
		TotalEmployers:    cachedCount(CacheKeyEmployers),
		OpenJobs:          cachedCount(CacheKeyJobsOpen),
		TodayJobs:         cachedCount(todayJobsKey()),
		TotalApplications: cachedCount(CacheKeyApplications),
		BoostedProfiles:   cachedCount(CacheKeyBoosted),
	}
}

// cachedCount reads a counter from the cache, returning 0 on a miss. Misses
// resolve on the next UpdateStatisticsCache run.
func cachedCount(key string) int {
	val, err := cache.Get(key)
	if err != nil {
		return 0
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return int(count)
}

func todayJobsKey() string {
	return fmt.Sprintf(CacheKeyJobsDaily, time.Now().Format("2006-01-02"))
}

func todayBounds() (time.Time, time.Time) {
	today := time.Now().Format("2006-01-02")
	start, _ := time.Parse("2006-01-02", today)
	return start, start.Add(24 * time.Hour)
}
