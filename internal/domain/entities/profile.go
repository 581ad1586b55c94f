package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// EntityType is the entity category an account holder declares for their profile
type EntityType string

const (
	EntityTypeUnset         EntityType = ""
	EntityTypeBusiness      EntityType = "business"
	EntityTypeLocalBusiness EntityType = "local_business"
	EntityTypeLocalService  EntityType = "local_service"
	EntityTypeOrganization  EntityType = "organization"
	EntityTypePerson        EntityType = "person"
	EntityTypeCreator       EntityType = "creator"
)

// VerifiedPlatform is one entry of Profile.VerifiedPlatforms
type VerifiedPlatform struct {
	URL        string    `json:"url"`
	Code       string    `json:"code,omitempty"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// Profile is the durable identity record of one account. Its verification fields are
// only written by the verifiers.
type Profile struct {
	ID                 uuid.UUID                   `json:"id"`
	UserID             uuid.UUID                   `json:"userId"`
	DisplayName        string                      `json:"displayName"`
	LegalName          null.String                 `json:"legalName,omitempty"`
	EntityType         EntityType                  `json:"entityType,omitempty"`
	Description        null.String                 `json:"description,omitempty"`
	VerificationStatus VerificationStatus          `json:"verificationStatus"`
	VerificationToken  string                      `json:"-"`
	PlatformVerifiedAt null.Time                   `json:"platformVerifiedAt,omitempty"`
	DomainVerifiedAt   null.Time                   `json:"domainVerifiedAt,omitempty"`
	VerifiedDomain     null.String                 `json:"verifiedDomain,omitempty"`
	VerifiedPlatforms  map[string]VerifiedPlatform `json:"verifiedPlatforms"`
	CreatedAt          time.Time                   `json:"createdAt"`
	UpdatedAt          time.Time                   `json:"updatedAt"`
}

// PromoteToPlatform applies a successful platform-tier proof. A DOMAIN_VERIFIED
// profile keeps its tier; the platform timestamp is stamped either way.
func (p *Profile) PromoteToPlatform(at time.Time) {
	p.VerificationStatus = Stronger(p.VerificationStatus, VerificationPlatformVerified)
	p.PlatformVerifiedAt = null.TimeFrom(at)
}

// PromoteToDomain applies a successful domain proof. Domain is the top tier.
func (p *Profile) PromoteToDomain(domain string, at time.Time) {
	p.VerificationStatus = VerificationDomainVerified
	p.DomainVerifiedAt = null.TimeFrom(at)
	p.VerifiedDomain = null.StringFrom(domain)
}

// RecordPlatform merges one entry into VerifiedPlatforms. Other keys are never removed.
func (p *Profile) RecordPlatform(key, url, code string, at time.Time) {
	if p.VerifiedPlatforms == nil {
		p.VerifiedPlatforms = map[string]VerifiedPlatform{}
	}
	p.VerifiedPlatforms[key] = VerifiedPlatform{URL: url, Code: code, VerifiedAt: at}
}

// VerificationView is the read model returned by the status endpoint
type VerificationView struct {
	Status             VerificationStatus          `json:"status"`
	PlatformVerifiedAt null.Time                   `json:"platformVerifiedAt"`
	DomainVerifiedAt   null.Time                   `json:"domainVerifiedAt"`
	VerifiedDomain     null.String                 `json:"verifiedDomain"`
	VerifiedPlatforms  map[string]VerifiedPlatform `json:"verifiedPlatforms"`
}

// View projects the verification fields of p
func (p *Profile) View() *VerificationView {
	platforms := p.VerifiedPlatforms
	if platforms == nil {
		platforms = map[string]VerifiedPlatform{}
	}
	return &VerificationView{
		Status:             Stronger(p.VerificationStatus, VerificationUnverified),
		PlatformVerifiedAt: p.PlatformVerifiedAt,
		DomainVerifiedAt:   p.DomainVerifiedAt,
		VerifiedDomain:     p.VerifiedDomain,
		VerifiedPlatforms:  platforms,
	}
}
