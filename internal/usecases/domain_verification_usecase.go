package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/domain/repositories"
	"aeobro.backend/pkg/logger"
	"aeobro.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLookupTimeout = 3 * time.Second
	verificationTokenLen = 16
)

// TXTLookup resolves TXT records for one host
type TXTLookup interface {
	LookupTXT(ctx context.Context, host string) ([]string, error)
}

// DomainVerificationUsecase proves domain ownership through a DNS TXT record
type DomainVerificationUsecase struct {
	profileRepo   repositories.ProfileRepository
	claimRepo     repositories.DomainClaimRepository
	uow           repositories.UnitOfWork
	resolver      TXTLookup
	lookupTimeout time.Duration
	obs           VerificationObservers

	newToken func() (string, error)
	now      func() time.Time
}

// NewDomainVerificationUsecase creates a new domain verification usecase.
// lookupTimeout bounds each candidate host lookup.
func NewDomainVerificationUsecase(
	profileRepo repositories.ProfileRepository,
	claimRepo repositories.DomainClaimRepository,
	uow repositories.UnitOfWork,
	resolver TXTLookup,
	lookupTimeout time.Duration,
	obs VerificationObservers,
) *DomainVerificationUsecase {
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &DomainVerificationUsecase{
		profileRepo:   profileRepo,
		claimRepo:     claimRepo,
		uow:           uow,
		resolver:      resolver,
		lookupTimeout: lookupTimeout,
		obs:           obs.withDefaults(),
		newToken:      func() (string, error) { return utils.RandomHex(verificationTokenLen) },
		now:           time.Now,
	}
}

// Start claims domain for userID and returns the record to publish. Repeated calls
// return the same token.
func (u *DomainVerificationUsecase) Start(ctx context.Context, userID uuid.UUID, rawDomain string) (*entities.DomainChallenge, error) {
	domain, err := entities.NormalizeDomain(rawDomain)
	if err != nil {
		return nil, domainerrors.BadRequest("a valid domain name is required")
	}

	claim, err := u.claimRepo.GetByDomain(ctx, domain)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if claim != nil {
		if claim.UserID != userID {
			return nil, domainerrors.Conflict("domain is already claimed by another account")
		}
		return entities.NewDomainChallenge(domain, claim.TXTToken), nil
	}

	token, err := u.ensureToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	claim = &entities.DomainClaim{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Domain:    domain,
		TXTToken:  token,
		Status:    entities.DomainClaimPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.claimRepo.Create(ctx, claim); err != nil {
		if errors.Is(err, domainerrors.ErrConflict) {
			return nil, domainerrors.Conflict("domain is already claimed by another account")
		}
		return nil, err
	}

	logger.Info(ctx, "Domain claim started", zap.String("domain", domain), zap.String("user_id", userID.String()))
	return entities.NewDomainChallenge(domain, token), nil
}

// ensureToken returns the profile's verification token, minting it on first use
func (u *DomainVerificationUsecase) ensureToken(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := u.profileRepo.EnsureForUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.VerificationToken != "" {
		return profile.VerificationToken, nil
	}
	token, err := u.newToken()
	if err != nil {
		return "", err
	}
	return u.profileRepo.SetVerificationToken(ctx, userID, token)
}

// Check looks for the claim's TXT record. Absence is a NotYetSatisfied result.
func (u *DomainVerificationUsecase) Check(ctx context.Context, userID uuid.UUID, rawDomain string) (*entities.CheckResult, error) {
	domain, err := entities.NormalizeDomain(rawDomain)
	if err != nil {
		return nil, domainerrors.BadRequest("a valid domain name is required")
	}

	claim, err := u.claimRepo.GetByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("start domain verification before checking")
		}
		return nil, err
	}
	if claim.UserID != userID {
		return nil, domainerrors.Conflict("domain is already claimed by another account")
	}

	profile, err := u.profileRepo.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if claim.Status == entities.DomainClaimVerified && profile.VerificationStatus == entities.VerificationDomainVerified {
		return entities.Verified(profile.VerificationStatus, "domain already verified"), nil
	}

	host, shape, ok := u.lookup(ctx, domain, claim.TXTToken)
	if !ok {
		u.obs.attempt(ctx, entities.MethodDNS, domain, outcomeNotYet)
		hint := "TXT record not found yet at " + entities.TXTHostCandidates[0].Host(domain) +
			". DNS changes can take up to 48 hours to propagate; try again later."
		return entities.NotYetSatisfied(entities.Stronger(profile.VerificationStatus, entities.VerificationUnverified), hint), nil
	}

	now := u.now()
	var promoted *entities.Profile
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.claimRepo.MarkVerified(txCtx, claim.ID); err != nil {
			return err
		}
		locked, err := u.profileRepo.GetByUserID(u.uow.WithLock(txCtx), userID)
		if err != nil {
			return err
		}
		locked.PromoteToDomain(domain, now)
		if err := u.profileRepo.SaveVerification(txCtx, locked); err != nil {
			return err
		}
		promoted = locked
		return nil
	})
	if err != nil {
		u.obs.attempt(ctx, entities.MethodDNS, domain, outcomeError, zap.Error(err))
		return nil, err
	}

	u.obs.proven(ctx, userID, entities.MethodDNS, domain, promoted.VerificationStatus, now,
		zap.String("host", host.Name), zap.String("shape", shape.Name))
	return entities.Verified(promoted.VerificationStatus, "domain verified"), nil
}

// ListClaims returns the caller's domain claims, newest first
func (u *DomainVerificationUsecase) ListClaims(ctx context.Context, userID uuid.UUID) ([]*entities.DomainClaim, error) {
	return u.claimRepo.ListByUserID(ctx, userID)
}

// lookup queries every candidate host concurrently. The earliest candidate with a
// match wins even when a later one answers first.
func (u *DomainVerificationUsecase) lookup(ctx context.Context, domain, token string) (entities.HostCandidate, entities.ValueShape, bool) {
	candidates := entities.TXTHostCandidates
	shapes := make([]entities.ValueShape, len(candidates))

	idx := firstInOrder(ctx, len(candidates), func(ctx context.Context, i int) bool {
		host := candidates[i].Host(domain)
		lookupCtx, cancel := context.WithTimeout(ctx, u.lookupTimeout)
		defer cancel()

		start := time.Now()
		records, err := u.resolver.LookupTXT(lookupCtx, host)
		u.obs.Metrics.ObserveExternal("dns", start)
		if err != nil {
			logger.Debug(ctx, "TXT lookup failed", zap.String("host", host), zap.Error(err))
			return false
		}
		shape, ok := MatchTXT(records, token)
		shapes[i] = shape
		return ok
	})
	if idx < 0 {
		return entities.HostCandidate{}, entities.ValueShape{}, false
	}
	return candidates[idx], shapes[idx], true
}

// MatchTXT reports whether any record carries token in an accepted value shape.
// Records are compared lower-cased, by equality or containment.
func MatchTXT(records []string, token string) (entities.ValueShape, bool) {
	if strings.TrimSpace(token) == "" {
		return entities.ValueShape{}, false
	}
	for _, shape := range entities.TXTValueShapes {
		want := shape.Expected(token)
		for _, record := range records {
			got := strings.ToLower(strings.TrimSpace(record))
			if got == want || strings.Contains(got, want) {
				return shape, true
			}
		}
	}
	return entities.ValueShape{}, false
}
