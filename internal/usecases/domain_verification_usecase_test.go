package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type domainFixture struct {
	profiles *MockProfileRepository
	claims   *MockDomainClaimRepository
	uow      *MockUnitOfWork
	resolver *fakeResolver
	cache    *spyCache
	events   *spyPublisher
	uc       *usecases.DomainVerificationUsecase
}

func newDomainFixture(resolver *fakeResolver) *domainFixture {
	f := &domainFixture{
		profiles: new(MockProfileRepository),
		claims:   new(MockDomainClaimRepository),
		uow:      new(MockUnitOfWork),
		resolver: resolver,
		cache:    newSpyCache(),
		events:   &spyPublisher{},
	}
	f.uc = usecases.NewDomainVerificationUsecase(f.profiles, f.claims, f.uow, resolver, time.Second,
		usecases.VerificationObservers{Cache: f.cache, Events: f.events})
	return f
}

func pendingClaim(userID uuid.UUID, domain, token string) *entities.DomainClaim {
	return &entities.DomainClaim{
		ID:       uuid.New(),
		UserID:   userID,
		Domain:   domain,
		TXTToken: token,
		Status:   entities.DomainClaimPending,
	}
}

func (f *domainFixture) expectPromotion(userID uuid.UUID, claim *entities.DomainClaim, profile *entities.Profile) {
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	f.uow.On("WithLock", mock.Anything).Once()
	f.claims.On("MarkVerified", mock.Anything, claim.ID).Return(nil).Once()
	f.profiles.On("GetByUserID", mock.Anything, userID).Return(profile, nil).Once()
	f.profiles.On("SaveVerification", mock.Anything, mock.MatchedBy(func(p *entities.Profile) bool {
		return p.VerificationStatus == entities.VerificationDomainVerified &&
			p.VerifiedDomain.String == claim.Domain && p.DomainVerifiedAt.Valid
	})).Return(nil).Once()
}

func TestDomainVerificationUsecase_Start_NewClaim(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	userID := uuid.New()

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(nil, domainerrors.ErrNotFound).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).Return(&entities.Profile{UserID: userID}, nil).Once()
	f.profiles.On("SetVerificationToken", mock.Anything, userID, mock.AnythingOfType("string")).Return("abc123", nil).Once()
	f.claims.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.DomainClaim) bool {
		return c.Domain == "example.com" && c.TXTToken == "abc123" && c.UserID == userID &&
			c.Status == entities.DomainClaimPending
	})).Return(nil).Once()

	challenge, err := f.uc.Start(context.Background(), userID, "https://www.Example.com/about")
	require.NoError(t, err)
	assert.Equal(t, "example.com", challenge.Domain)
	assert.Equal(t, "abc123", challenge.Token)
	assert.Equal(t, "_aeobro-verify.example.com", challenge.RecordHost)
	assert.Equal(t, "TXT", challenge.RecordType)
	assert.Equal(t, "aeobro-site-verify=abc123", challenge.RecordValue)
	f.claims.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
}

func TestDomainVerificationUsecase_Start_ReusesProfileToken(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	userID := uuid.New()

	f.claims.On("GetByDomain", mock.Anything, "second.com").Return(nil, domainerrors.ErrNotFound).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).
		Return(&entities.Profile{UserID: userID, VerificationToken: "persisted"}, nil).Once()
	f.claims.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	challenge, err := f.uc.Start(context.Background(), userID, "second.com")
	require.NoError(t, err)
	assert.Equal(t, "persisted", challenge.Token)
	f.profiles.AssertNotCalled(t, "SetVerificationToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestDomainVerificationUsecase_Start_IdempotentForSameUser(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	userID := uuid.New()
	existing := pendingClaim(userID, "example.com", "abc123")

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(existing, nil).Twice()

	first, err := f.uc.Start(context.Background(), userID, "example.com")
	require.NoError(t, err)
	second, err := f.uc.Start(context.Background(), userID, "WWW.EXAMPLE.COM.")
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, "abc123", second.Token)
	f.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDomainVerificationUsecase_Start_ClaimedByAnotherAccount(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	owner := uuid.New()

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(pendingClaim(owner, "example.com", "abc123"), nil).Once()

	_, err := f.uc.Start(context.Background(), uuid.New(), "example.com")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	f.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDomainVerificationUsecase_Start_RaceOnCreateIsConflict(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	userID := uuid.New()

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(nil, domainerrors.ErrNotFound).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).
		Return(&entities.Profile{UserID: userID, VerificationToken: "tok"}, nil).Once()
	f.claims.On("Create", mock.Anything, mock.Anything).Return(domainerrors.ErrConflict).Once()

	_, err := f.uc.Start(context.Background(), userID, "example.com")
	var appErr *domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.Status)
}

func TestDomainVerificationUsecase_Start_InvalidDomain(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	for _, in := range []string{"", "localhost", "http://", "10.0.0.1", "exa mple.com"} {
		_, err := f.uc.Start(context.Background(), uuid.New(), in)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput, in)
	}
}

func TestDomainVerificationUsecase_Check_PreferredRecordVerifies(t *testing.T) {
	resolver := &fakeResolver{records: map[string][]string{
		"_aeobro-verify.example.com": {"aeobro-site-verify=abc123"},
	}}
	f := newDomainFixture(resolver)
	userID := uuid.New()
	claim := pendingClaim(userID, "example.com", "abc123")
	profile := &entities.Profile{UserID: userID, VerificationStatus: entities.VerificationUnverified}

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(claim, nil).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).Return(profile, nil).Once()
	f.expectPromotion(userID, claim, profile)

	result, err := f.uc.Check(context.Background(), userID, "example.com")
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, entities.VerificationDomainVerified, result.Status)

	assert.Equal(t, []uuid.UUID{userID}, f.cache.invalidated)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "dns", f.events.events[0].Method)
	assert.Equal(t, "example.com", f.events.events[0].Target)
	f.claims.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
}

func TestDomainVerificationUsecase_Check_StalledEventStreamDoesNotHoldResponse(t *testing.T) {
	resolver := &fakeResolver{records: map[string][]string{
		"_aeobro-verify.example.com": {"aeobro-site-verify=abc123"},
	}}
	f := newDomainFixture(resolver)
	stalled := &stallingPublisher{}
	f.uc = usecases.NewDomainVerificationUsecase(f.profiles, f.claims, f.uow, resolver, time.Second,
		usecases.VerificationObservers{Cache: f.cache, Events: stalled, PublishTimeout: 50 * time.Millisecond})
	userID := uuid.New()
	claim := pendingClaim(userID, "example.com", "abc123")
	profile := &entities.Profile{UserID: userID, VerificationStatus: entities.VerificationUnverified}

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(claim, nil).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).Return(profile, nil).Once()
	f.expectPromotion(userID, claim, profile)

	start := time.Now()
	result, err := f.uc.Check(context.Background(), userID, "example.com")
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.True(t, stalled.sawDeadline)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDomainVerificationUsecase_Check_AcceptsEveryHostAndShape(t *testing.T) {
	hosts := []string{"_aeobro-verify.example.com", "_aeobro.example.com", "example.com"}
	values := []string{"aeobro-site-verify=abc123", "aeobro-verification=abc123", "abc123"}

	for _, host := range hosts {
		for _, value := range values {
			t.Run(host+"/"+value, func(t *testing.T) {
				f := newDomainFixture(&fakeResolver{records: map[string][]string{host: {value}}})
				userID := uuid.New()
				claim := pendingClaim(userID, "example.com", "abc123")
				profile := &entities.Profile{UserID: userID}

				f.claims.On("GetByDomain", mock.Anything, "example.com").Return(claim, nil).Once()
				f.profiles.On("EnsureForUser", mock.Anything, userID).Return(profile, nil).Once()
				f.expectPromotion(userID, claim, profile)

				result, err := f.uc.Check(context.Background(), userID, "example.com")
				require.NoError(t, err)
				assert.True(t, result.Verified)
				assert.Equal(t, entities.VerificationDomainVerified, result.Status)
			})
		}
	}
}

func TestDomainVerificationUsecase_Check_ResolverErrorOnOneHostDoesNotAbort(t *testing.T) {
	resolver := &fakeResolver{
		records: map[string][]string{"_aeobro.example.com": {"v=spf1 -all aeobro-verification=abc123"}},
		errs:    map[string]error{"_aeobro-verify.example.com": errors.New("i/o timeout")},
	}
	f := newDomainFixture(resolver)
	userID := uuid.New()
	claim := pendingClaim(userID, "example.com", "abc123")
	profile := &entities.Profile{UserID: userID, VerificationStatus: entities.VerificationPlatformVerified}

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(claim, nil).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).Return(profile, nil).Once()
	f.expectPromotion(userID, claim, profile)

	result, err := f.uc.Check(context.Background(), userID, "example.com")
	require.NoError(t, err)
	assert.True(t, result.Verified)
}

func TestDomainVerificationUsecase_Check_NotYetSatisfied(t *testing.T) {
	resolver := &fakeResolver{records: map[string][]string{
		"_aeobro-verify.example.com": {"aeobro-site-verify=someone-else"},
		"example.com":                {"v=spf1 include:_spf.example.net ~all"},
	}}
	f := newDomainFixture(resolver)
	userID := uuid.New()
	claim := pendingClaim(userID, "example.com", "abc123")

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(claim, nil).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).
		Return(&entities.Profile{UserID: userID, VerificationStatus: entities.VerificationPlatformVerified}, nil).Once()

	result, err := f.uc.Check(context.Background(), userID, "example.com")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, entities.OutcomeNotYetSatisfied, result.Outcome)
	assert.Equal(t, entities.VerificationPlatformVerified, result.Status)
	assert.Contains(t, result.Message, "_aeobro-verify.example.com")

	f.claims.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
	assert.Empty(t, f.cache.invalidated)
	assert.Len(t, resolver.queried, 3)
}

func TestDomainVerificationUsecase_Check_NotStarted(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(nil, domainerrors.ErrNotFound).Once()

	_, err := f.uc.Check(context.Background(), uuid.New(), "example.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDomainVerificationUsecase_Check_OtherUsersClaim(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	f.claims.On("GetByDomain", mock.Anything, "example.com").
		Return(pendingClaim(uuid.New(), "example.com", "abc123"), nil).Once()

	_, err := f.uc.Check(context.Background(), uuid.New(), "example.com")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestDomainVerificationUsecase_Check_AlreadyVerifiedSkipsLookup(t *testing.T) {
	resolver := &fakeResolver{}
	f := newDomainFixture(resolver)
	userID := uuid.New()
	claim := pendingClaim(userID, "example.com", "abc123")
	claim.Status = entities.DomainClaimVerified

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(claim, nil).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).
		Return(&entities.Profile{UserID: userID, VerificationStatus: entities.VerificationDomainVerified}, nil).Once()

	result, err := f.uc.Check(context.Background(), userID, "example.com")
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Empty(t, resolver.queried)
}

func TestDomainVerificationUsecase_Check_SaveFailureRollsBack(t *testing.T) {
	resolver := &fakeResolver{records: map[string][]string{"example.com": {"abc123"}}}
	f := newDomainFixture(resolver)
	userID := uuid.New()
	claim := pendingClaim(userID, "example.com", "abc123")
	profile := &entities.Profile{UserID: userID}

	f.claims.On("GetByDomain", mock.Anything, "example.com").Return(claim, nil).Once()
	f.profiles.On("EnsureForUser", mock.Anything, userID).Return(profile, nil).Once()
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Once()
	f.uow.On("WithLock", mock.Anything).Once()
	f.claims.On("MarkVerified", mock.Anything, claim.ID).Return(nil).Once()
	f.profiles.On("GetByUserID", mock.Anything, userID).Return(profile, nil).Once()
	f.profiles.On("SaveVerification", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	_, err := f.uc.Check(context.Background(), userID, "example.com")
	assert.EqualError(t, err, "db down")
	assert.Empty(t, f.cache.invalidated)
	assert.Empty(t, f.events.events)
}

func TestDomainVerificationUsecase_ListClaims(t *testing.T) {
	f := newDomainFixture(&fakeResolver{})
	userID := uuid.New()
	claims := []*entities.DomainClaim{pendingClaim(userID, "a.com", "t"), pendingClaim(userID, "b.com", "t")}
	f.claims.On("ListByUserID", mock.Anything, userID).Return(claims, nil).Once()

	got, err := f.uc.ListClaims(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMatchTXT(t *testing.T) {
	shape, ok := usecases.MatchTXT([]string{"google-site-verification=x", "AEOBRO-SITE-VERIFY=ABC123"}, "abc123")
	assert.True(t, ok)
	assert.Equal(t, "current", shape.Name)

	shape, ok = usecases.MatchTXT([]string{"foo aeobro-verification=abc123 bar"}, "abc123")
	assert.True(t, ok)
	assert.Equal(t, "legacy", shape.Name)

	shape, ok = usecases.MatchTXT([]string{"  abc123  "}, "abc123")
	assert.True(t, ok)
	assert.Equal(t, "bare", shape.Name)

	_, ok = usecases.MatchTXT([]string{"aeobro-site-verify=abc12"}, "abc123")
	assert.False(t, ok)

	_, ok = usecases.MatchTXT([]string{"anything"}, "")
	assert.False(t, ok)

	_, ok = usecases.MatchTXT(nil, "abc123")
	assert.False(t, ok)
}
