package entities

import "testing"

func TestDecideExportType_GatingTable(t *testing.T) {
	cases := []struct {
		declared EntityType
		legal    bool
		status   VerificationStatus
		want     SchemaType
	}{
		{EntityTypeBusiness, false, VerificationUnverified, SchemaPerson},
		{EntityTypeBusiness, false, VerificationPlatformVerified, SchemaPerson},
		{EntityTypeBusiness, false, VerificationDomainVerified, SchemaOrganization},
		{EntityTypeOrganization, true, VerificationDomainVerified, SchemaOrganization},
		{EntityTypeLocalService, false, VerificationDomainVerified, SchemaLocalBusiness},
		{EntityTypeLocalBusiness, false, VerificationPlatformVerified, SchemaPerson},
		{EntityTypePerson, false, VerificationUnverified, SchemaPerson},
		{EntityTypeCreator, true, VerificationDomainVerified, SchemaPerson},
		{EntityTypeUnset, true, VerificationDomainVerified, SchemaOrganization},
		{EntityTypeUnset, true, VerificationPlatformVerified, SchemaPerson},
		{EntityTypeUnset, false, VerificationDomainVerified, SchemaPerson},
		{EntityType("spaceship"), false, VerificationDomainVerified, SchemaNone},
		{EntityType("Business"), false, VerificationUnverified, SchemaPerson},
		{EntityType("Business"), false, VerificationDomainVerified, SchemaOrganization},
		{EntityType("Organization"), false, VerificationUnverified, SchemaPerson},
		{EntityType("LocalBusiness"), false, VerificationDomainVerified, SchemaLocalBusiness},
		{EntityType("local-business"), false, VerificationDomainVerified, SchemaLocalBusiness},
		{EntityType(" Person "), false, VerificationUnverified, SchemaPerson},
	}
	for _, tc := range cases {
		got := DecideExportType(tc.declared, tc.legal, tc.status)
		if got != tc.want {
			t.Fatalf("DecideExportType(%q, %v, %s) = %q, want %q", tc.declared, tc.legal, tc.status, got, tc.want)
		}
	}
}

func TestDecideExportType_NeverOrganizationalBelowDomain(t *testing.T) {
	declared := []EntityType{
		EntityTypeUnset, EntityTypeBusiness, EntityTypeLocalBusiness, EntityTypeLocalService,
		EntityTypeOrganization, EntityTypePerson, EntityTypeCreator, EntityType("other"),
	}
	for _, d := range declared {
		for _, legal := range []bool{true, false} {
			for _, st := range []VerificationStatus{VerificationUnverified, VerificationPlatformVerified, ""} {
				if DecideExportType(d, legal, st).IsOrganizational() {
					t.Fatalf("%q with status %q exported as organization", d, st)
				}
			}
		}
	}
}

func TestNormalizeEntityType(t *testing.T) {
	cases := map[EntityType]EntityType{
		"Business":       EntityTypeBusiness,
		"LocalBusiness":  EntityTypeLocalBusiness,
		"local-business": EntityTypeLocalBusiness,
		"Local Service":  EntityTypeLocalService,
		"  CREATOR ":     EntityTypeCreator,
		"":               EntityTypeUnset,
	}
	for in, want := range cases {
		if got := NormalizeEntityType(in); got != want {
			t.Fatalf("NormalizeEntityType(%q) = %q, want %q", in, got, want)
		}
	}
}
