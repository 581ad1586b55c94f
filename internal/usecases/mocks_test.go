package usecases_test

import (
	"context"
	"net/url"
	"sync"
	"time"

	"aeobro.backend/internal/domain/entities"
	"aeobro.backend/internal/infrastructure/dns"
	"aeobro.backend/internal/infrastructure/events"
	"aeobro.backend/internal/infrastructure/providers"
	"aeobro.backend/internal/infrastructure/webfetch"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

// Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) EnsureForUser(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) SetVerificationToken(ctx context.Context, userID uuid.UUID, token string) (string, error) {
	args := m.Called(ctx, userID, token)
	return args.String(0), args.Error(1)
}

func (m *MockProfileRepository) SaveVerification(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// Mock DomainClaimRepository
type MockDomainClaimRepository struct {
	mock.Mock
}

func (m *MockDomainClaimRepository) Create(ctx context.Context, claim *entities.DomainClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockDomainClaimRepository) GetByDomain(ctx context.Context, domain string) (*entities.DomainClaim, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DomainClaim), args.Error(1)
}

func (m *MockDomainClaimRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.DomainClaim, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DomainClaim), args.Error(1)
}

func (m *MockDomainClaimRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock BioCodeRepository
type MockBioCodeRepository struct {
	mock.Mock
}

func (m *MockBioCodeRepository) Create(ctx context.Context, code *entities.BioCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockBioCodeRepository) GetLive(ctx context.Context, userID uuid.UUID, platform entities.Platform, now time.Time) (*entities.BioCode, error) {
	args := m.Called(ctx, userID, platform, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BioCode), args.Error(1)
}

func (m *MockBioCodeRepository) Consume(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBioCodeRepository) DeleteExpiredFor(ctx context.Context, userID uuid.UUID, platform entities.Platform, now time.Time) error {
	args := m.Called(ctx, userID, platform, now)
	return args.Error(0)
}

func (m *MockBioCodeRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).(int64), args.Error(1)
}

// Mock PlatformAccountRepository
type MockPlatformAccountRepository struct {
	mock.Mock
}

func (m *MockPlatformAccountRepository) Upsert(ctx context.Context, account *entities.PlatformAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockPlatformAccountRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.PlatformAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PlatformAccount), args.Error(1)
}

func (m *MockPlatformAccountRepository) Delete(ctx context.Context, userID uuid.UUID, provider entities.Platform) error {
	args := m.Called(ctx, userID, provider)
	return args.Error(0)
}

// fakeResolver answers from a fixed host table; hosts in errs fail
type fakeResolver struct {
	records map[string][]string
	errs    map[string]error

	mu      sync.Mutex
	queried []string
}

func (r *fakeResolver) LookupTXT(_ context.Context, host string) ([]string, error) {
	r.mu.Lock()
	r.queried = append(r.queried, host)
	r.mu.Unlock()
	if err := r.errs[host]; err != nil {
		return nil, err
	}
	recs, ok := r.records[host]
	if !ok {
		return nil, dns.ErrNoRecords
	}
	return recs, nil
}

// fakeFetcher serves page text per target kind
type fakeFetcher struct {
	texts map[webfetch.Kind]string
	errs  map[webfetch.Kind]error
}

func (f *fakeFetcher) Targets(_ entities.Platform, profile *url.URL) []webfetch.Target {
	return []webfetch.Target{
		{Kind: webfetch.KindProfileAPI, URL: "https://api.example.test" + profile.Path},
		{Kind: webfetch.KindPageText, URL: profile.String()},
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, t webfetch.Target) (string, error) {
	if err := f.errs[t.Kind]; err != nil {
		return "", err
	}
	return f.texts[t.Kind], nil
}

// stubAdapter returns a canned identity or error
type stubAdapter struct {
	platform entities.Platform
	identity *providers.Identity
	err      error

	gotToken string
	gotOpts  providers.Options
}

func (a *stubAdapter) Platform() entities.Platform { return a.platform }

func (a *stubAdapter) FetchIdentity(_ context.Context, token string, opts providers.Options) (*providers.Identity, error) {
	a.gotToken = token
	a.gotOpts = opts
	if a.err != nil {
		return nil, a.err
	}
	return a.identity, nil
}

// spyCache records invalidations and serves one stored document
type spyCache struct {
	mu          sync.Mutex
	docs        map[uuid.UUID][]byte
	invalidated []uuid.UUID
	getErr      error
}

func newSpyCache() *spyCache {
	return &spyCache{docs: map[uuid.UUID][]byte{}}
}

func (c *spyCache) Get(_ context.Context, userID uuid.UUID) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	doc, ok := c.docs[userID]
	return doc, ok, nil
}

func (c *spyCache) Set(_ context.Context, userID uuid.UUID, doc []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[userID] = doc
	return nil
}

func (c *spyCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

// stallingPublisher blocks until the publish context ends
type stallingPublisher struct {
	sawDeadline bool
}

func (p *stallingPublisher) Publish(ctx context.Context, _ events.VerificationEvent) error {
	_, p.sawDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

// spyPublisher captures events
type spyPublisher struct {
	events []events.VerificationEvent
	err    error
}

func (p *spyPublisher) Publish(_ context.Context, e events.VerificationEvent) error {
	p.events = append(p.events, e)
	return p.err
}
