package jobqueue

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/craftmatch/CraftMatch/internal/pkg/metrics/counter"
	"github.com/craftmatch/CraftMatch/internal/pkg/statistics"
)

// Swapped out in tests.
var (
	statsRefresher = statistics.UpdateStatisticsCache
	counterFlusher = counter.FlushAll
)

// processStatsRefreshJob drains the buffered view counters into the database
// and recounts the marketplace statistics into the cache.
func (q *Queue) processStatsRefreshJob(job *Job) error {
	payload, err := StatsRefreshJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid stats refresh payload: %w", err)
	}

	if err := counterFlusher(); err != nil {
		log.Warnf("[JobQueue] View counter flush failed: %v", err)
	}

	log.Infof("[JobQueue] Refreshing statistics cache (reason=%s)", payload.Reason)
	if err := statsRefresher(); err != nil {
		return fmt.Errorf("refresh statistics: %w", err)
	}
	return nil
}
