package models

import (
	"time"

	"github.com/google/uuid"
)

type BioCode struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_bio_codes_user_platform;uniqueIndex:idx_bio_codes_live,where:status = 'PENDING'"`
	Platform   string    `gorm:"type:varchar(32);not null;index:idx_bio_codes_user_platform;uniqueIndex:idx_bio_codes_live,where:status = 'PENDING'"`
	Code       string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ProfileURL string    `gorm:"type:text;not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	Status     string    `gorm:"type:varchar(16);not null;default:'PENDING'"`
	VerifiedAt *time.Time
	CreatedAt  time.Time
}
