package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Unread notifications are kept twice as long as read ones
const unreadRetentionFactor = 2

// CleanupJob handles notification retention cleanup
type CleanupJob struct {
	repo          Repository
	retentionDays int
	now           func() time.Time
}

// NewCleanupJob creates a cleanup job
func NewCleanupJob(repo Repository, retentionDays int) *CleanupJob {
	if retentionDays <= 0 {
		retentionDays = 90 // Default 90 days
	}
	return &CleanupJob{
		repo:          repo,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Start starts the cleanup job with the given interval
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	j.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Notification cleanup job stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *CleanupJob) run(ctx context.Context) {
	read, unread, err := j.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old notifications")
		return
	}
	if read+unread > 0 {
		log.Info().
			Int64("deleted_read", read).
			Int64("deleted_unread", unread).
			Int("retention_days", j.retentionDays).
			Msg("Cleaned up old notifications")
	}
}

// RunOnce deletes read notifications past retention and any notification
// past the extended unread retention.
func (j *CleanupJob) RunOnce(ctx context.Context) (read, unread int64, err error) {
	now := j.now()

	read, err = j.repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -j.retentionDays), true)
	if err != nil {
		return 0, 0, err
	}

	unread, err = j.repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -j.retentionDays*unreadRetentionFactor), false)
	if err != nil {
		return read, 0, err
	}
	return read, unread, nil
}
