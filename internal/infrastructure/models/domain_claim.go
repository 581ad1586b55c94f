package models

import (
	"time"

	"github.com/google/uuid"
)

type DomainClaim struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Domain      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	TXTToken    string    `gorm:"column:txt_token;type:varchar(64);not null"`
	Status      string    `gorm:"type:varchar(16);not null;default:'PENDING'"`
	DNSVerified bool      `gorm:"column:dns_verified;not null;default:false"`
	VerifiedAt  *time.Time
	EmailIssued *string `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
