package repositories

import (
	"context"
	"errors"
	"time"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// DomainClaimRepository implements domain claim operations
type DomainClaimRepository struct {
	db *gorm.DB
}

// NewDomainClaimRepository creates a new domain claim repository
func NewDomainClaimRepository(db *gorm.DB) *DomainClaimRepository {
	return &DomainClaimRepository{db: db}
}

// Create inserts a claim. The unique index on domain turns a race into ErrConflict.
func (r *DomainClaimRepository) Create(ctx context.Context, claim *entities.DomainClaim) error {
	m := &models.DomainClaim{
		ID:          claim.ID,
		UserID:      claim.UserID,
		Domain:      claim.Domain,
		TXTToken:    claim.TXTToken,
		Status:      string(claim.Status),
		DNSVerified: claim.DNSVerified,
		VerifiedAt:  claim.VerifiedAt.Ptr(),
		EmailIssued: claim.EmailIssued.Ptr(),
		CreatedAt:   claim.CreatedAt,
		UpdatedAt:   claim.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByDomain gets the claim for a normalized domain
func (r *DomainClaimRepository) GetByDomain(ctx context.Context, domain string) (*entities.DomainClaim, error) {
	var m models.DomainClaim
	if err := lockedQuery(ctx, r.db).Where("domain = ?", domain).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toDomainClaimEntity(&m), nil
}

// ListByUserID returns the claims of userID, newest first
func (r *DomainClaimRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.DomainClaim, error) {
	var rows []models.DomainClaim
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	claims := make([]*entities.DomainClaim, 0, len(rows))
	for i := range rows {
		claims = append(claims, toDomainClaimEntity(&rows[i]))
	}
	return claims, nil
}

// MarkVerified flags the claim as proven through DNS
func (r *DomainClaimRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.DomainClaim{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(entities.DomainClaimVerified),
			"dns_verified": true,
			"verified_at":  now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toDomainClaimEntity(m *models.DomainClaim) *entities.DomainClaim {
	return &entities.DomainClaim{
		ID:          m.ID,
		UserID:      m.UserID,
		Domain:      m.Domain,
		TXTToken:    m.TXTToken,
		Status:      entities.DomainClaimStatus(m.Status),
		DNSVerified: m.DNSVerified,
		VerifiedAt:  null.TimeFromPtr(m.VerifiedAt),
		EmailIssued: null.StringFromPtr(m.EmailIssued),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
