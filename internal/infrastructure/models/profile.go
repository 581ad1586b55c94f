package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName        string    `gorm:"type:varchar(255);not null;default:''"`
	LegalName          *string   `gorm:"type:varchar(255)"`
	EntityType         string    `gorm:"type:varchar(50);not null;default:''"`
	Description        *string   `gorm:"type:text"`
	VerificationStatus string    `gorm:"type:varchar(32);not null;default:'UNVERIFIED'"`
	VerificationToken  string    `gorm:"type:varchar(64);not null;default:''"`
	PlatformVerifiedAt *time.Time
	DomainVerifiedAt   *time.Time
	VerifiedDomain     *string `gorm:"type:varchar(255)"`
	VerifiedPlatforms  string  `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}
