package repositories

import (
	"context"

	"aeobro.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// DomainClaimRepository defines domain claim operations
type DomainClaimRepository interface {
	// Create returns ErrConflict when the domain is already claimed.
	Create(ctx context.Context, claim *entities.DomainClaim) error
	GetByDomain(ctx context.Context, domain string) (*entities.DomainClaim, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.DomainClaim, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
}
