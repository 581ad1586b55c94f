package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/infrastructure/models"
	"aeobro.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository implements profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID gets the profile owned by userID
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	if err := lockedQuery(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// EnsureForUser returns the profile of userID, creating an UNVERIFIED one when missing
func (r *ProfileRepository) EnsureForUser(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	profile, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	m := &models.Profile{
		ID:                 utils.GenerateUUIDv7(),
		UserID:             userID,
		VerificationStatus: string(entities.VerificationUnverified),
		VerifiedPlatforms:  "{}",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	// A concurrent request may have created it first; both then read the same row.
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(m).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

// SetVerificationToken stores token unless one is already set, then returns the stored token
func (r *ProfileRepository) SetVerificationToken(ctx context.Context, userID uuid.UUID, token string) (string, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)
	result := db.Model(&models.Profile{}).
		Where("user_id = ? AND verification_token = ''", userID).
		Updates(map[string]interface{}{
			"verification_token": token,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return "", result.Error
	}

	var m models.Profile
	if err := db.Select("verification_token").Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrNotFound
		}
		return "", err
	}
	return m.VerificationToken, nil
}

// SaveVerification persists the verification fields of profile
func (r *ProfileRepository) SaveVerification(ctx context.Context, profile *entities.Profile) error {
	platforms, err := json.Marshal(profile.VerifiedPlatforms)
	if err != nil {
		return fmt.Errorf("encode verified platforms: %w", err)
	}
	if profile.VerifiedPlatforms == nil {
		platforms = []byte("{}")
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"verification_status":  string(profile.VerificationStatus),
			"platform_verified_at": profile.PlatformVerifiedAt.Ptr(),
			"domain_verified_at":   profile.DomainVerifiedAt.Ptr(),
			"verified_domain":      profile.VerifiedDomain.Ptr(),
			"verified_platforms":   string(platforms),
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) toEntity(m *models.Profile) (*entities.Profile, error) {
	platforms := map[string]entities.VerifiedPlatform{}
	if m.VerifiedPlatforms != "" {
		if err := json.Unmarshal([]byte(m.VerifiedPlatforms), &platforms); err != nil {
			return nil, fmt.Errorf("decode verified platforms: %w", err)
		}
	}

	return &entities.Profile{
		ID:                 m.ID,
		UserID:             m.UserID,
		DisplayName:        m.DisplayName,
		LegalName:          null.StringFromPtr(m.LegalName),
		EntityType:         entities.EntityType(m.EntityType),
		Description:        null.StringFromPtr(m.Description),
		VerificationStatus: entities.VerificationStatus(m.VerificationStatus),
		VerificationToken:  m.VerificationToken,
		PlatformVerifiedAt: null.TimeFromPtr(m.PlatformVerifiedAt),
		DomainVerifiedAt:   null.TimeFromPtr(m.DomainVerifiedAt),
		VerifiedDomain:     null.StringFromPtr(m.VerifiedDomain),
		VerifiedPlatforms:  platforms,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}
