package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/domain/repositories"
	"aeobro.backend/internal/infrastructure/cache"
	"aeobro.backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const schemaContext = "https://schema.org"

// SchemaExportUsecase renders the public JSON-LD document of a profile
type SchemaExportUsecase struct {
	profileRepo repositories.ProfileRepository
	cache       cache.ProfileCache
}

// NewSchemaExportUsecase creates a new schema export usecase. A nil cache disables caching.
func NewSchemaExportUsecase(profileRepo repositories.ProfileRepository, profileCache cache.ProfileCache) *SchemaExportUsecase {
	if profileCache == nil {
		profileCache = cache.Noop{}
	}
	return &SchemaExportUsecase{profileRepo: profileRepo, cache: profileCache}
}

// Export returns the encoded JSON-LD document for userID
func (u *SchemaExportUsecase) Export(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if doc, ok, err := u.cache.Get(ctx, userID); err != nil {
		logger.Warn(ctx, "Public profile cache read failed", zap.Error(err))
	} else if ok {
		return doc, nil
	}

	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, err
	}

	doc := BuildSchemaDocument(profile)
	if doc == nil {
		return nil, domainerrors.NotFound("profile has no publishable type")
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	if err := u.cache.Set(ctx, userID, encoded); err != nil {
		logger.Warn(ctx, "Public profile cache write failed", zap.Error(err))
	}
	return encoded, nil
}

// BuildSchemaDocument maps a stored profile to JSON-LD. The @type comes from
// entities.DecideExportType; nil means nothing may be published.
func BuildSchemaDocument(p *entities.Profile) entities.SchemaDocument {
	schemaType := entities.DecideExportType(p.EntityType, p.LegalName.Valid && p.LegalName.String != "", p.VerificationStatus)
	if schemaType == entities.SchemaNone {
		return nil
	}

	name := p.DisplayName
	if schemaType.IsOrganizational() && p.LegalName.Valid && p.LegalName.String != "" {
		name = p.LegalName.String
	}

	doc := entities.SchemaDocument{
		"@context": schemaContext,
		"@type":    string(schemaType),
		"@id":      "urn:aeobro:profile:" + p.UserID.String(),
		"name":     name,
	}
	if p.Description.Valid && p.Description.String != "" {
		doc["description"] = p.Description.String
	}
	if p.VerificationStatus == entities.VerificationDomainVerified && p.VerifiedDomain.Valid {
		doc["url"] = "https://" + p.VerifiedDomain.String
	}

	sameAs := make([]string, 0, len(p.VerifiedPlatforms))
	for _, vp := range p.VerifiedPlatforms {
		if vp.URL != "" {
			sameAs = append(sameAs, vp.URL)
		}
	}
	if len(sameAs) > 0 {
		sort.Strings(sameAs)
		doc["sameAs"] = sameAs
	}
	return doc
}
