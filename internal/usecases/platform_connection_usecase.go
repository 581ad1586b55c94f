package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/domain/repositories"
	"aeobro.backend/internal/infrastructure/providers"
	"aeobro.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// IdentityProviders resolves the adapter for a platform
type IdentityProviders interface {
	Get(p entities.Platform) (providers.Adapter, error)
}

// PlatformConnectResult is returned by a successful connect
type PlatformConnectResult struct {
	Account *entities.PlatformAccount   `json:"account"`
	Status  entities.VerificationStatus `json:"status"`
}

// PlatformConnectionUsecase binds OAuth-proven provider identities to accounts
type PlatformConnectionUsecase struct {
	profileRepo repositories.ProfileRepository
	accountRepo repositories.PlatformAccountRepository
	uow         repositories.UnitOfWork
	providers   IdentityProviders
	obs         VerificationObservers

	now func() time.Time
}

// NewPlatformConnectionUsecase creates a new platform connection usecase
func NewPlatformConnectionUsecase(
	profileRepo repositories.ProfileRepository,
	accountRepo repositories.PlatformAccountRepository,
	uow repositories.UnitOfWork,
	identityProviders IdentityProviders,
	obs VerificationObservers,
) *PlatformConnectionUsecase {
	return &PlatformConnectionUsecase{
		profileRepo: profileRepo,
		accountRepo: accountRepo,
		uow:         uow,
		providers:   identityProviders,
		obs:         obs.withDefaults(),
		now:         time.Now,
	}
}

func (u *PlatformConnectionUsecase) adapterFor(raw string) (providers.Adapter, error) {
	platform, ok := entities.ParsePlatform(raw)
	if !ok {
		return nil, domainerrors.UnsupportedPlatform(fmt.Sprintf("platform %q is not supported", raw))
	}
	adapter, err := u.providers.Get(platform)
	if err != nil {
		return nil, domainerrors.UnsupportedPlatform(string(platform) + " cannot be connected with OAuth; use bio verification")
	}
	return adapter, nil
}

// Connect fetches the identity behind input.AccessToken, binds it to userID and
// promotes the profile to PLATFORM_VERIFIED unless it already ranks higher.
func (u *PlatformConnectionUsecase) Connect(ctx context.Context, userID uuid.UUID, rawProvider string, input *entities.ConnectPlatformInput) (*PlatformConnectResult, error) {
	adapter, err := u.adapterFor(rawProvider)
	if err != nil {
		return nil, err
	}
	platform := adapter.Platform()

	start := time.Now()
	identity, err := adapter.FetchIdentity(ctx, input.AccessToken, providers.Options{PageID: strings.TrimSpace(input.PageID)})
	u.obs.Metrics.ObserveExternal("provider_"+string(platform), start)
	if err != nil {
		u.obs.attempt(ctx, entities.MethodPlatform, string(platform), outcomeRejected, zap.String("code", string(providers.CodeOf(err))))
		return nil, providerAppError(err)
	}

	if _, err := u.profileRepo.EnsureForUser(ctx, userID); err != nil {
		return nil, err
	}

	now := u.now()
	account := &entities.PlatformAccount{
		ID:         utils.GenerateUUIDv7(),
		UserID:     userID,
		Provider:   platform,
		ExternalID: identity.ExternalID,
		Handle:     null.NewString(identity.Handle, identity.Handle != ""),
		ProfileURL: null.NewString(identity.URL, identity.URL != ""),
		Status:     entities.PlatformAccountVerified,
		VerifiedAt: null.TimeFrom(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var promoted *entities.Profile
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Upsert(txCtx, account); err != nil {
			return err
		}
		locked, err := u.profileRepo.GetByUserID(u.uow.WithLock(txCtx), userID)
		if err != nil {
			return err
		}
		locked.RecordPlatform(string(platform), identity.URL, "", now)
		locked.PromoteToPlatform(now)
		if err := u.profileRepo.SaveVerification(txCtx, locked); err != nil {
			return err
		}
		promoted = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrConflict) {
			u.obs.attempt(ctx, entities.MethodPlatform, string(platform), outcomeRejected, zap.String("reason", "bound_elsewhere"))
			return nil, domainerrors.Conflict("this " + string(platform) + " account is connected to another profile")
		}
		u.obs.attempt(ctx, entities.MethodPlatform, string(platform), outcomeError, zap.Error(err))
		return nil, err
	}

	u.obs.proven(ctx, userID, entities.MethodPlatform, string(platform), promoted.VerificationStatus, now)
	return &PlatformConnectResult{Account: account, Status: promoted.VerificationStatus}, nil
}

// ListAccounts returns the connected accounts of userID
func (u *PlatformConnectionUsecase) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*entities.PlatformAccount, error) {
	return u.accountRepo.ListByUserID(ctx, userID)
}

// Disconnect removes the provider binding. The profile's status is left as is.
func (u *PlatformConnectionUsecase) Disconnect(ctx context.Context, userID uuid.UUID, rawProvider string) error {
	platform, ok := entities.ParsePlatform(rawProvider)
	if !ok {
		return domainerrors.UnsupportedPlatform(fmt.Sprintf("platform %q is not supported", rawProvider))
	}
	if err := u.accountRepo.Delete(ctx, userID, platform); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(string(platform) + " is not connected")
		}
		return err
	}
	return nil
}

// A rejected provider token is not a failure of the caller's own session, so it never
// maps to 401 or 403.
var providerStatus = map[providers.Code]int{
	providers.CodeMissingToken:        http.StatusBadRequest,
	providers.CodeInvalidToken:        http.StatusUnprocessableEntity,
	providers.CodeInsufficientScope:   http.StatusUnprocessableEntity,
	providers.CodeNoUserID:            http.StatusUnprocessableEntity,
	providers.CodeNoPages:             http.StatusUnprocessableEntity,
	providers.CodeNoLinkedAccount:     http.StatusUnprocessableEntity,
	providers.CodeProviderUnavailable: http.StatusBadGateway,
	providers.CodeBadResponse:         http.StatusBadGateway,
}

// providerAppError turns an adapter failure into a caller-actionable API error
func providerAppError(err error) error {
	var pe *providers.ProviderError
	if !errors.As(err, &pe) {
		return domainerrors.NewAppError(http.StatusBadGateway, string(providers.CodeProviderUnavailable), "provider request failed", err).
			WithAction(providers.ActionRetry)
	}
	status, ok := providerStatus[pe.Code]
	if !ok {
		status = http.StatusBadGateway
	}
	return domainerrors.NewAppError(status, string(pe.Code), pe.Message, err).WithAction(pe.Action)
}
