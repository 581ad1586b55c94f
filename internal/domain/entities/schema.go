package entities

import "strings"

// SchemaType is a schema.org type the export may emit
type SchemaType string

const (
	SchemaNone          SchemaType = ""
	SchemaOrganization  SchemaType = "Organization"
	SchemaLocalBusiness SchemaType = "LocalBusiness"
	SchemaPerson        SchemaType = "Person"
)

// IsOrganizational reports whether t asserts a business/organization identity
func (t SchemaType) IsOrganizational() bool {
	return t == SchemaOrganization || t == SchemaLocalBusiness
}

// SchemaDocument is the JSON-LD object published for a profile
type SchemaDocument map[string]interface{}

// NormalizeEntityType folds a declared category to its canonical key. Matching is
// case-insensitive and "LocalBusiness", "local-business" and "local business" all
// map to local_business.
func NormalizeEntityType(declared EntityType) EntityType {
	s := strings.ToLower(strings.TrimSpace(string(declared)))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	switch s {
	case "localbusiness":
		return EntityTypeLocalBusiness
	case "localservice":
		return EntityTypeLocalService
	}
	return EntityType(s)
}

// desiredSchema maps a declared category to the type the holder wants published.
func desiredSchema(declared EntityType, hasLegalName bool) SchemaType {
	switch NormalizeEntityType(declared) {
	case EntityTypeLocalBusiness, EntityTypeLocalService:
		return SchemaLocalBusiness
	case EntityTypeBusiness, EntityTypeOrganization:
		return SchemaOrganization
	case EntityTypePerson, EntityTypeCreator:
		return SchemaPerson
	case EntityTypeUnset:
		if hasLegalName {
			return SchemaOrganization
		}
		return SchemaPerson
	default:
		return SchemaNone
	}
}

// DecideExportType picks the schema.org type a profile may publish. Organizational
// types require DOMAIN_VERIFIED and fall back to Person below it. SchemaNone means the
// declared category is not recognized.
func DecideExportType(declared EntityType, hasLegalName bool, status VerificationStatus) SchemaType {
	desired := desiredSchema(declared, hasLegalName)
	if desired.IsOrganizational() && status != VerificationDomainVerified {
		return SchemaPerson
	}
	return desired
}
