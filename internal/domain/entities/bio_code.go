package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// BioCodeStatus represents the state of a code-in-bio challenge
type BioCodeStatus string

const (
	BioCodePending  BioCodeStatus = "PENDING"
	BioCodeVerified BioCodeStatus = "VERIFIED"
)

// TTL bounds for code-in-bio challenges
const (
	BioCodeMinTTL     = time.Hour
	BioCodeMaxTTL     = 72 * time.Hour
	BioCodeDefaultTTL = 24 * time.Hour
	BioCodePrefix     = "AEOBRO"
	BioCodeRandomLen  = 8
)

// BioCode is a short-lived, single-use token a user publishes in a public bio
type BioCode struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"userId"`
	Platform   Platform      `json:"platform"`
	Code       string        `json:"code"`
	ProfileURL string        `json:"profileUrl"`
	ExpiresAt  time.Time     `json:"expiresAt"`
	Status     BioCodeStatus `json:"status"`
	VerifiedAt null.Time     `json:"verifiedAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// IsLive reports whether the code can still satisfy a check at now
func (b *BioCode) IsLive(now time.Time) bool {
	return b.Status == BioCodePending && now.Before(b.ExpiresAt)
}

// ClampBioTTL applies the 1h..72h bounds; zero or negative selects the default.
func ClampBioTTL(ttl, def time.Duration) time.Duration {
	if ttl <= 0 {
		ttl = def
	}
	if ttl < BioCodeMinTTL {
		return BioCodeMinTTL
	}
	if ttl > BioCodeMaxTTL {
		return BioCodeMaxTTL
	}
	return ttl
}

// BioChallenge is returned by the generate operation
type BioChallenge struct {
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Platform     Platform  `json:"platform"`
	ProfileURL   string    `json:"profileUrl"`
	Instructions string    `json:"instructions"`
}
