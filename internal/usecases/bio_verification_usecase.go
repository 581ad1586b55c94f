package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/domain/repositories"
	"aeobro.backend/internal/infrastructure/webfetch"
	"aeobro.backend/pkg/logger"
	"aeobro.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BioFetcher lists and fetches the public resources that may carry a bio code
type BioFetcher interface {
	Targets(platform entities.Platform, profile *url.URL) []webfetch.Target
	Fetch(ctx context.Context, target webfetch.Target) (string, error)
}

// GenerateBioCodeInput is the body of the generate endpoint
type GenerateBioCodeInput struct {
	Platform   string `json:"platform" binding:"required"`
	ProfileURL string `json:"profileUrl" binding:"required"`
	TTLHours   int    `json:"ttlHours,omitempty"`
}

// CheckBioCodeInput is the body of the bio check endpoint
type CheckBioCodeInput struct {
	Platform   string `json:"platform" binding:"required"`
	ProfileURL string `json:"profileUrl" binding:"required"`
}

// BioVerificationUsecase proves control of a platform account by finding an issued
// code in its public bio
type BioVerificationUsecase struct {
	profileRepo repositories.ProfileRepository
	codeRepo    repositories.BioCodeRepository
	uow         repositories.UnitOfWork
	fetcher     BioFetcher
	defaultTTL  time.Duration
	obs         VerificationObservers

	randomSuffix func(n int) (string, error)
	now          func() time.Time
}

// NewBioVerificationUsecase creates a new bio verification usecase
func NewBioVerificationUsecase(
	profileRepo repositories.ProfileRepository,
	codeRepo repositories.BioCodeRepository,
	uow repositories.UnitOfWork,
	fetcher BioFetcher,
	defaultTTL time.Duration,
	obs VerificationObservers,
) *BioVerificationUsecase {
	return &BioVerificationUsecase{
		profileRepo:  profileRepo,
		codeRepo:     codeRepo,
		uow:          uow,
		fetcher:      fetcher,
		defaultTTL:   entities.ClampBioTTL(defaultTTL, entities.BioCodeDefaultTTL),
		obs:          obs.withDefaults(),
		randomSuffix: utils.RandomBase32,
		now:          time.Now,
	}
}

func parseBioTarget(rawPlatform, rawURL string) (entities.Platform, *url.URL, error) {
	platform, ok := entities.ParsePlatform(rawPlatform)
	if !ok {
		return "", nil, domainerrors.UnsupportedPlatform(fmt.Sprintf("platform %q is not supported", rawPlatform))
	}
	profileURL, ok := platform.ParseProfileURL(rawURL)
	if !ok {
		return "", nil, domainerrors.BadRequest("profileUrl must be an http(s) link on " + string(platform))
	}
	return platform, profileURL, nil
}

// Generate issues a code for (userID, platform). A live code is returned unchanged.
func (u *BioVerificationUsecase) Generate(ctx context.Context, userID uuid.UUID, input *GenerateBioCodeInput) (*entities.BioChallenge, error) {
	platform, profileURL, err := parseBioTarget(input.Platform, input.ProfileURL)
	if err != nil {
		return nil, err
	}
	if _, err := u.profileRepo.EnsureForUser(ctx, userID); err != nil {
		return nil, err
	}

	now := u.now()
	live, err := u.codeRepo.GetLive(ctx, userID, platform, now)
	if err == nil {
		return bioChallenge(live), nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	// expired pending rows still hold the live slot
	if err := u.codeRepo.DeleteExpiredFor(ctx, userID, platform, now); err != nil {
		return nil, err
	}

	ttl := entities.ClampBioTTL(time.Duration(input.TTLHours)*time.Hour, u.defaultTTL)
	code := &entities.BioCode{
		ID:         utils.GenerateUUIDv7(),
		UserID:     userID,
		Platform:   platform,
		ProfileURL: profileURL.String(),
		ExpiresAt:  now.Add(ttl),
		Status:     entities.BioCodePending,
		CreatedAt:  now,
	}

	// A conflict is either a concurrent generate that won the live slot, whose code is
	// returned, or a code collision, which gets one retry with a fresh suffix.
	for attempt := 0; ; attempt++ {
		suffix, err := u.randomSuffix(entities.BioCodeRandomLen)
		if err != nil {
			return nil, err
		}
		code.Code = entities.BioCodePrefix + "-" + platform.Upper() + "-" + suffix
		err = u.codeRepo.Create(ctx, code)
		if err == nil {
			break
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return nil, err
		}
		if winner, lerr := u.codeRepo.GetLive(ctx, userID, platform, now); lerr == nil {
			return bioChallenge(winner), nil
		}
		if attempt > 0 {
			return nil, err
		}
	}

	logger.Info(ctx, "Bio code issued",
		zap.String("platform", string(platform)),
		zap.Time("expires_at", code.ExpiresAt),
	)
	return bioChallenge(code), nil
}

func bioChallenge(code *entities.BioCode) *entities.BioChallenge {
	return &entities.BioChallenge{
		Code:       code.Code,
		ExpiresAt:  code.ExpiresAt,
		Platform:   code.Platform,
		ProfileURL: code.ProfileURL,
		Instructions: "Add " + code.Code + " to your public " + string(code.Platform) +
			" bio or about section, save it, then run the check before " + code.ExpiresAt.UTC().Format(time.RFC3339) + ".",
	}
}

// Check searches the public profile for the live code. A miss leaves the code usable.
func (u *BioVerificationUsecase) Check(ctx context.Context, userID uuid.UUID, input *CheckBioCodeInput) (*entities.CheckResult, error) {
	platform, profileURL, err := parseBioTarget(input.Platform, input.ProfileURL)
	if err != nil {
		return nil, err
	}

	now := u.now()
	code, err := u.codeRepo.GetLive(ctx, userID, platform, now)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("no active code for " + string(platform) + "; generate a new one")
		}
		return nil, err
	}

	target, ok := u.search(ctx, platform, profileURL, code.Code)
	if !ok {
		profile, err := u.profileRepo.EnsureForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		u.obs.attempt(ctx, entities.MethodBio, string(platform), outcomeNotYet)
		return entities.NotYetSatisfied(
			entities.Stronger(profile.VerificationStatus, entities.VerificationUnverified),
			"Code not found on the profile yet. Edits can take a few minutes to appear publicly; try again shortly.",
		), nil
	}

	var promoted *entities.Profile
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.codeRepo.Consume(txCtx, code.ID, now); err != nil {
			return err
		}
		locked, err := u.profileRepo.GetByUserID(u.uow.WithLock(txCtx), userID)
		if err != nil {
			return err
		}
		locked.RecordPlatform(string(platform), profileURL.String(), code.Code, now)
		locked.PromoteToPlatform(now)
		if err := u.profileRepo.SaveVerification(txCtx, locked); err != nil {
			return err
		}
		promoted = locked
		return nil
	})
	if errors.Is(err, domainerrors.ErrAlreadyConsumed) {
		// a concurrent check consumed the code first and did the promotion
		u.obs.attempt(ctx, entities.MethodBio, string(platform), outcomeRejected, zap.String("reason", "already_consumed"))
		profile, err := u.profileRepo.EnsureForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return entities.Verified(profile.VerificationStatus, "code already used"), nil
	}
	if err != nil {
		u.obs.attempt(ctx, entities.MethodBio, string(platform), outcomeError, zap.Error(err))
		return nil, err
	}

	u.obs.proven(ctx, userID, entities.MethodBio, string(platform), promoted.VerificationStatus, now,
		zap.String("source", string(target.Kind)))
	return entities.Verified(promoted.VerificationStatus, string(platform)+" account verified"), nil
}

// search fetches every target concurrently and returns the most specific one whose
// text contains code
func (u *BioVerificationUsecase) search(ctx context.Context, platform entities.Platform, profileURL *url.URL, code string) (webfetch.Target, bool) {
	targets := u.fetcher.Targets(platform, profileURL)
	needle := strings.ToLower(code)

	idx := firstInOrder(ctx, len(targets), func(ctx context.Context, i int) bool {
		start := time.Now()
		text, err := u.fetcher.Fetch(ctx, targets[i])
		u.obs.Metrics.ObserveExternal("bio_"+string(targets[i].Kind), start)
		if err != nil {
			logger.Debug(ctx, "Bio fetch failed", zap.String("kind", string(targets[i].Kind)), zap.Error(err))
			return false
		}
		return strings.Contains(strings.ToLower(text), needle)
	})
	if idx < 0 {
		return webfetch.Target{}, false
	}
	return targets[idx], true
}
