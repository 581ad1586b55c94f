package repositories

import (
	"context"
	"testing"
	"time"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_EnsureAndSaveVerification(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.GetByUserID(ctx, userID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	created, err := repo.EnsureForUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, entities.VerificationUnverified, created.VerificationStatus)
	require.Empty(t, created.VerifiedPlatforms)

	again, err := repo.EnsureForUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, created.ID, again.ID)

	now := time.Now().UTC().Truncate(time.Second)
	created.PromoteToPlatform(now)
	created.RecordPlatform("github", "https://github.com/acme", "AEOBRO-GITHUB-ABCDEFGH", now)
	require.NoError(t, repo.SaveVerification(ctx, created))

	stored, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, entities.VerificationPlatformVerified, stored.VerificationStatus)
	require.True(t, stored.PlatformVerifiedAt.Valid)
	require.False(t, stored.DomainVerifiedAt.Valid)
	require.Equal(t, "https://github.com/acme", stored.VerifiedPlatforms["github"].URL)

	stored.PromoteToDomain("acme.com", now)
	require.NoError(t, repo.SaveVerification(ctx, stored))

	final, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, entities.VerificationDomainVerified, final.VerificationStatus)
	require.Equal(t, "acme.com", final.VerifiedDomain.String)
	require.Len(t, final.VerifiedPlatforms, 1)
}

func TestProfileRepository_SetVerificationTokenOnce(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.EnsureForUser(ctx, userID)
	require.NoError(t, err)

	first, err := repo.SetVerificationToken(ctx, userID, "token-a")
	require.NoError(t, err)
	require.Equal(t, "token-a", first)

	second, err := repo.SetVerificationToken(ctx, userID, "token-b")
	require.NoError(t, err)
	require.Equal(t, "token-a", second, "an existing token must never be replaced")

	_, err = repo.SetVerificationToken(ctx, uuid.New(), "token-c")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileRepository_SaveVerificationMissing(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)

	err := repo.SaveVerification(context.Background(), &entities.Profile{UserID: uuid.New()})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileRepository_CorruptPlatformsColumn(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)
	userID := uuid.New()
	mustExec(t, db, "INSERT INTO profiles(id,user_id,verified_platforms) VALUES (?,?,?)", uuid.New().String(), userID.String(), "{not json")

	_, err := repo.GetByUserID(context.Background(), userID)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode verified platforms")
}
