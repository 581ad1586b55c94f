package models

import (
	"time"

	"github.com/google/uuid"
)

type PlatformAccount struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_platform_accounts_user_provider"`
	Provider   string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_platform_accounts_user_provider;uniqueIndex:idx_platform_accounts_provider_external"`
	ExternalID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_platform_accounts_provider_external"`
	Handle     *string   `gorm:"type:varchar(255)"`
	ProfileURL *string   `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(16);not null;default:'PENDING'"`
	VerifiedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
