package repositories

import (
	"context"
	"time"

	"aeobro.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// BioCodeRepository defines code-in-bio challenge operations
type BioCodeRepository interface {
	Create(ctx context.Context, code *entities.BioCode) error
	// GetLive returns the pending, unexpired code for (userID, platform) or ErrNotFound.
	GetLive(ctx context.Context, userID uuid.UUID, platform entities.Platform, now time.Time) (*entities.BioCode, error)
	// Consume flips a PENDING code to VERIFIED. A second call returns ErrAlreadyConsumed.
	Consume(ctx context.Context, id uuid.UUID, at time.Time) error
	// DeleteExpiredFor removes the expired pending codes of one (userID, platform) so a
	// fresh code can take the single live slot.
	DeleteExpiredFor(ctx context.Context, userID uuid.UUID, platform entities.Platform, now time.Time) error
	// DeleteExpired removes pending codes that expired before now.
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}
