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

// BioCodeRepository implements code-in-bio challenge operations
type BioCodeRepository struct {
	db *gorm.DB
}

// NewBioCodeRepository creates a new bio code repository
func NewBioCodeRepository(db *gorm.DB) *BioCodeRepository {
	return &BioCodeRepository{db: db}
}

// Create stores a freshly minted code. ErrConflict covers both a code collision and a
// second live code for the same (user, platform).
func (r *BioCodeRepository) Create(ctx context.Context, code *entities.BioCode) error {
	m := &models.BioCode{
		ID:         code.ID,
		UserID:     code.UserID,
		Platform:   string(code.Platform),
		Code:       code.Code,
		ProfileURL: code.ProfileURL,
		ExpiresAt:  code.ExpiresAt,
		Status:     string(code.Status),
		VerifiedAt: code.VerifiedAt.Ptr(),
		CreatedAt:  code.CreatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetLive gets the newest pending, unexpired code for (userID, platform)
func (r *BioCodeRepository) GetLive(ctx context.Context, userID uuid.UUID, platform entities.Platform, now time.Time) (*entities.BioCode, error) {
	var m models.BioCode
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND platform = ? AND status = ? AND expires_at > ?",
			userID, string(platform), string(entities.BioCodePending), now).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toBioCodeEntity(&m), nil
}

// Consume flips a pending code to VERIFIED. The status guard makes a second
// consumer observe zero affected rows.
func (r *BioCodeRepository) Consume(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.BioCode{}).
		Where("id = ? AND status = ?", id, string(entities.BioCodePending)).
		Updates(map[string]interface{}{
			"status":      string(entities.BioCodeVerified),
			"verified_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAlreadyConsumed
	}
	return nil
}

// DeleteExpiredFor removes expired pending codes of userID on platform
func (r *BioCodeRepository) DeleteExpiredFor(ctx context.Context, userID uuid.UUID, platform entities.Platform, now time.Time) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND platform = ? AND status = ? AND expires_at <= ?",
			userID, string(platform), string(entities.BioCodePending), now).
		Delete(&models.BioCode{}).Error
}

// DeleteExpired removes up to limit pending codes that expired before now
func (r *BioCodeRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)
	expired := db.Model(&models.BioCode{}).
		Select("id").
		Where("status = ? AND expires_at <= ?", string(entities.BioCodePending), now).
		Limit(limit)

	result := db.Where("id IN (?)", expired).Delete(&models.BioCode{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func toBioCodeEntity(m *models.BioCode) *entities.BioCode {
	return &entities.BioCode{
		ID:         m.ID,
		UserID:     m.UserID,
		Platform:   entities.Platform(m.Platform),
		Code:       m.Code,
		ProfileURL: m.ProfileURL,
		ExpiresAt:  m.ExpiresAt,
		Status:     entities.BioCodeStatus(m.Status),
		VerifiedAt: null.TimeFromPtr(m.VerifiedAt),
		CreatedAt:  m.CreatedAt,
	}
}
