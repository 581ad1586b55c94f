package repositories

import (
	"context"

	"aeobro.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// ProfileRepository defines profile data operations
type ProfileRepository interface {
	// GetByUserID returns ErrNotFound when the account has no profile yet.
	// Under UnitOfWork.WithLock the row stays locked until the transaction ends.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	// EnsureForUser returns the profile of userID, creating an UNVERIFIED one if absent.
	EnsureForUser(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	// SetVerificationToken stores token only if none is set and returns the stored one.
	SetVerificationToken(ctx context.Context, userID uuid.UUID, token string) (string, error)
	// SaveVerification persists the verification fields of profile.
	SaveVerification(ctx context.Context, profile *entities.Profile) error
}
