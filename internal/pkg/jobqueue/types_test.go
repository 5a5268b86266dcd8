package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEmailJobPayload_RoundTrip(t *testing.T) {
	payload := NotificationEmailJobPayload{
		RecipientID: 42,
		Subject:     "New application for your job",
		Body:        "<p>A worker applied.</p>",
		Kind:        "application_received",
	}

	m := payload.ToMap()
	assert.Equal(t, uint(42), m["recipient_id"])
	assert.Equal(t, "application_received", m["kind"])

	restored, err := NotificationEmailJobPayloadFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestStatsRefreshJobPayload_RoundTrip(t *testing.T) {
	payload := StatsRefreshJobPayload{Reason: "scheduled"}

	restored, err := StatsRefreshJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestJobStatusTransitions(t *testing.T) {
	job := &Job{
		ID:         "test-job",
		Type:       JobTypeNotificationEmail,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  time.Now(),
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("smtp unreachable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "smtp unreachable", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	require.NotNil(t, job.CompletedAt)
}

func TestJobIsRetryable_ExhaustedRetries(t *testing.T) {
	job := &Job{Status: JobStatusFailed, RetryCount: DefaultMaxRetries, MaxRetries: DefaultMaxRetries}
	assert.False(t, job.IsRetryable())

	job = &Job{Status: JobStatusPending, RetryCount: 0, MaxRetries: DefaultMaxRetries}
	assert.False(t, job.IsRetryable(), "only failed jobs are retryable")
}
