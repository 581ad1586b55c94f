package jobs

import (
	"context"
	"sync"
	"time"

	"aeobro.backend/pkg/logger"
	"go.uber.org/zap"
)

const sweepBatchSize = 500

type expiredBioCodeDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}

// BioCodeSweepJob deletes pending code-in-bio challenges past their expiry
type BioCodeSweepJob struct {
	repo     expiredBioCodeDeleter
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewBioCodeSweepJob(repo expiredBioCodeDeleter, interval time.Duration) *BioCodeSweepJob {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &BioCodeSweepJob{
		repo:     repo,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *BioCodeSweepJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting bio code sweep job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Bio code sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Bio code sweep job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *BioCodeSweepJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// sweep drains expired codes in batches so one tick never holds a long delete
func (j *BioCodeSweepJob) sweep(ctx context.Context) {
	now := j.now()
	var total int64
	for {
		deleted, err := j.repo.DeleteExpired(ctx, now, sweepBatchSize)
		if err != nil {
			logger.Error(ctx, "Error sweeping expired bio codes", zap.Error(err))
			return
		}
		total += deleted
		if deleted < sweepBatchSize || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		logger.Info(ctx, "Swept expired bio codes", zap.Int64("count", total))
	}
}
