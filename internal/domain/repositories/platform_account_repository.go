package repositories

import (
	"context"

	"aeobro.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// PlatformAccountRepository defines connected platform account operations
type PlatformAccountRepository interface {
	// Upsert inserts or refreshes the (user, provider) binding.
	// Returns ErrConflict when the external id is bound to another user.
	Upsert(ctx context.Context, account *entities.PlatformAccount) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PlatformAccount, error)
	Delete(ctx context.Context, userID uuid.UUID, provider entities.Platform) error
}
