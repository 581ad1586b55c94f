package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PlatformAccountStatus represents the state of a connected platform account
type PlatformAccountStatus string

const (
	PlatformAccountPending  PlatformAccountStatus = "PENDING"
	PlatformAccountVerified PlatformAccountStatus = "VERIFIED"
	PlatformAccountFailed   PlatformAccountStatus = "FAILED"
)

// PlatformAccount is a provider identity bound to an account through OAuth.
// ExternalID is the provider's immutable id, never the handle.
type PlatformAccount struct {
	ID         uuid.UUID             `json:"id"`
	UserID     uuid.UUID             `json:"userId"`
	Provider   Platform              `json:"provider"`
	ExternalID string                `json:"externalId"`
	Handle     null.String           `json:"handle,omitempty"`
	ProfileURL null.String           `json:"profileUrl,omitempty"`
	Status     PlatformAccountStatus `json:"status"`
	VerifiedAt null.Time             `json:"verifiedAt,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// ConnectPlatformInput is the body of the connect endpoint
type ConnectPlatformInput struct {
	AccessToken string `json:"accessToken" binding:"required"`
	PageID      string `json:"pageId,omitempty"`
}
