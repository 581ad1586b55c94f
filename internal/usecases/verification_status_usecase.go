package usecases

import (
	"context"
	"errors"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/domain/repositories"
	"github.com/google/uuid"
)

// VerificationStatusUsecase reads the stored verification state
type VerificationStatusUsecase struct {
	profileRepo repositories.ProfileRepository
}

// NewVerificationStatusUsecase creates a new verification status usecase
func NewVerificationStatusUsecase(profileRepo repositories.ProfileRepository) *VerificationStatusUsecase {
	return &VerificationStatusUsecase{profileRepo: profileRepo}
}

// GetStatus returns the verification view of userID. An account without a profile
// reads as UNVERIFIED.
func (u *VerificationStatusUsecase) GetStatus(ctx context.Context, userID uuid.UUID) (*entities.VerificationView, error) {
	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return (&entities.Profile{}).View(), nil
		}
		return nil, err
	}
	return profile.View(), nil
}
