package usecases

import (
	"context"
	"time"

	"aeobro.backend/internal/domain/entities"
	"aeobro.backend/internal/infrastructure/cache"
	"aeobro.backend/internal/infrastructure/events"
	"aeobro.backend/pkg/logger"
	"aeobro.backend/pkg/metrics"
	"aeobro.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome labels used for metrics and the attempt log line
const (
	outcomeVerified = "verified"
	outcomeNotYet   = "not_yet_satisfied"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// defaultPublishTimeout bounds event publishing when no timeout is configured
const defaultPublishTimeout = 2 * time.Second

// VerificationObservers receives the side effects of a verification attempt. Every
// field is optional. PublishTimeout caps how long a request waits on the event stream.
type VerificationObservers struct {
	Cache          cache.ProfileCache
	Events         events.Publisher
	Metrics        *metrics.Metrics
	PublishTimeout time.Duration
}

func (o VerificationObservers) withDefaults() VerificationObservers {
	if o.Cache == nil {
		o.Cache = cache.Noop{}
	}
	if o.Events == nil {
		o.Events = events.Noop{}
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = defaultPublishTimeout
	}
	return o
}

// attempt records one check attempt in metrics and the log
func (o VerificationObservers) attempt(ctx context.Context, method entities.VerificationMethod, target, outcome string, fields ...zap.Field) {
	o.Metrics.ObserveAttempt(string(method), outcome)
	logger.LogVerification(ctx, string(method), target, outcome, fields...)
}

// proven runs after a proof transaction commits. Failures here are logged only; the
// proof itself is already durable.
func (o VerificationObservers) proven(ctx context.Context, userID uuid.UUID, method entities.VerificationMethod, target string, status entities.VerificationStatus, at time.Time, fields ...zap.Field) {
	if err := o.Cache.Invalidate(ctx, userID); err != nil {
		logger.Warn(ctx, "Failed to invalidate public profile cache", zap.Error(err))
	}

	event := events.VerificationEvent{
		ID:         utils.GenerateUUIDv7(),
		UserID:     userID,
		Method:     string(method),
		Target:     target,
		Status:     string(status),
		OccurredAt: at,
	}
	pubCtx, cancel := context.WithTimeout(ctx, o.PublishTimeout)
	err := o.Events.Publish(pubCtx, event)
	cancel()
	if err != nil {
		logger.Warn(ctx, "Failed to publish verification event", zap.Error(err), zap.String("method", string(method)))
	}

	o.attempt(ctx, method, target, outcomeVerified, append(fields, zap.String("status", string(status)))...)
}

// firstInOrder runs probe for 0..n-1 concurrently and returns the lowest index that
// reported a hit, or -1. It returns as soon as every lower index has missed; the
// remaining probes see their context cancelled.
func firstInOrder(ctx context.Context, n int, probe func(ctx context.Context, i int) bool) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	hits := make([]chan bool, n)
	for i := 0; i < n; i++ {
		i := i
		hits[i] = make(chan bool, 1)
		g.Go(func() error {
			hits[i] <- probe(gctx, i)
			return nil
		})
	}

	found := -1
	for i := 0; i < n; i++ {
		if <-hits[i] {
			found = i
			break
		}
	}
	cancel()
	_ = g.Wait()
	return found
}
