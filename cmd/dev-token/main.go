package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"aeobro.backend/internal/config"
	"aeobro.backend/internal/domain/entities"
	"aeobro.backend/internal/infrastructure/datasources/postgres"
	"aeobro.backend/internal/infrastructure/repositories"
	"aeobro.backend/pkg/jwt"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const maxTokenTTL = 24 * time.Hour

type devTokenRuntime interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
}

type devTokenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (devTokenRuntime, io.Closer, error)
	out     io.Writer
}

type profileRuntime struct {
	profileRepo *repositories.ProfileRepository
}

func (r profileRuntime) EnsureProfile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	return r.profileRepo.EnsureForUser(ctx, userID)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultDevTokenDeps() devTokenDeps {
	return devTokenDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (devTokenRuntime, io.Closer, error) {
			sqlDB, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			db, err := postgres.NewGorm(sqlDB)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("failed to init gorm: %w", err)
			}
			return profileRuntime{profileRepo: repositories.NewProfileRepository(db)}, sqlDB, nil
		},
		out: os.Stdout,
	}
}

func parseUserID(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, fmt.Errorf("--user-id is required")
	}
	return uuid.Parse(userID)
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 || ttl > maxTokenTTL {
		return fmt.Errorf("--ttl must be within (0, %s]", maxTokenTTL)
	}
	return nil
}

// runDevToken ensures a profile exists for the user and prints a signed access token
// for calling the verification API locally.
func runDevToken(args []string, deps devTokenDeps) error {
	def := defaultDevTokenDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("dev-token", flag.ContinueOnError)
	userIDFlag := fs.String("user-id", "", "target user UUID (required)")
	ttlFlag := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := parseUserID(*userIDFlag)
	if err != nil {
		return err
	}
	if err := validateTTL(*ttlFlag); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	profile, err := runtime.EnsureProfile(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("failed to ensure profile for %s: %w", userID, err)
	}

	token, err := jwt.NewJWTService(cfg.JWT.Secret, *ttlFlag).GenerateAccessToken(userID)
	if err != nil {
		return fmt.Errorf("failed signing token: %w", err)
	}

	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", userID.String())
	_, _ = fmt.Fprintf(deps.out, "profile_id=%s\n", profile.ID.String())
	_, _ = fmt.Fprintf(deps.out, "status=%s\n", profile.VerificationStatus)
	_, _ = fmt.Fprintf(deps.out, "ACCESS_TOKEN=%s\n", token)
	return nil
}

func main() {
	if err := runDevToken(os.Args[1:], defaultDevTokenDeps()); err != nil {
		log.Fatal(err)
	}
}
