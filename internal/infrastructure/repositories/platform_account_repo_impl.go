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
	"gorm.io/gorm/clause"
)

// PlatformAccountRepository implements connected platform account operations
type PlatformAccountRepository struct {
	db *gorm.DB
}

// NewPlatformAccountRepository creates a new platform account repository
func NewPlatformAccountRepository(db *gorm.DB) *PlatformAccountRepository {
	return &PlatformAccountRepository{db: db}
}

// Upsert binds (user, provider) to the provider's external id. One external id can
// only ever belong to one user.
func (r *PlatformAccountRepository) Upsert(ctx context.Context, account *entities.PlatformAccount) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	now := time.Now()

	var existing models.PlatformAccount
	err := db.Where("provider = ? AND external_id = ?", string(account.Provider), account.ExternalID).First(&existing).Error
	switch {
	case err == nil && existing.UserID != account.UserID:
		return domainerrors.ErrConflict
	case err == nil:
		// Same identity reconnecting: refresh in place.
		if err := db.Model(&models.PlatformAccount{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"handle":      account.Handle.Ptr(),
			"profile_url": account.ProfileURL.Ptr(),
			"status":      string(account.Status),
			"verified_at": account.VerifiedAt.Ptr(),
			"updated_at":  now,
		}).Error; err != nil {
			return err
		}
		account.ID = existing.ID
		account.CreatedAt = existing.CreatedAt
		account.UpdatedAt = now
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	m := &models.PlatformAccount{
		ID:         account.ID,
		UserID:     account.UserID,
		Provider:   string(account.Provider),
		ExternalID: account.ExternalID,
		Handle:     account.Handle.Ptr(),
		ProfileURL: account.ProfileURL.Ptr(),
		Status:     string(account.Status),
		VerifiedAt: account.VerifiedAt.Ptr(),
		CreatedAt:  account.CreatedAt,
		UpdatedAt:  account.UpdatedAt,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"external_id", "handle", "profile_url", "status", "verified_at", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrConflict
		}
		return err
	}

	var stored models.PlatformAccount
	if err := db.Where("user_id = ? AND provider = ?", account.UserID, string(account.Provider)).First(&stored).Error; err != nil {
		return err
	}
	account.ID = stored.ID
	account.CreatedAt = stored.CreatedAt
	return nil
}

// ListByUserID lists the connected accounts of userID ordered by provider
func (r *PlatformAccountRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PlatformAccount, error) {
	var rows []models.PlatformAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("provider ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	accounts := make([]*entities.PlatformAccount, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, toPlatformAccountEntity(&rows[i]))
	}
	return accounts, nil
}

// Delete removes the (userID, provider) binding
func (r *PlatformAccountRepository) Delete(ctx context.Context, userID uuid.UUID, provider entities.Platform) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, string(provider)).
		Delete(&models.PlatformAccount{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toPlatformAccountEntity(m *models.PlatformAccount) *entities.PlatformAccount {
	return &entities.PlatformAccount{
		ID:         m.ID,
		UserID:     m.UserID,
		Provider:   entities.Platform(m.Provider),
		ExternalID: m.ExternalID,
		Handle:     null.StringFromPtr(m.Handle),
		ProfileURL: null.StringFromPtr(m.ProfileURL),
		Status:     entities.PlatformAccountStatus(m.Status),
		VerifiedAt: null.TimeFromPtr(m.VerifiedAt),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
