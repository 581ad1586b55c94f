package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aeobro.backend/internal/config"
	"aeobro.backend/internal/infrastructure/cache"
	"aeobro.backend/internal/infrastructure/datasources/postgres"
	"aeobro.backend/internal/infrastructure/dns"
	"aeobro.backend/internal/infrastructure/events"
	"aeobro.backend/internal/infrastructure/jobs"
	"aeobro.backend/internal/infrastructure/providers"
	"aeobro.backend/internal/infrastructure/ratelimit"
	"aeobro.backend/internal/infrastructure/repositories"
	"aeobro.backend/internal/infrastructure/webfetch"
	"aeobro.backend/internal/interfaces/http/handlers"
	"aeobro.backend/internal/interfaces/http/middleware"
	"aeobro.backend/internal/usecases"
	"aeobro.backend/pkg/jwt"
	"aeobro.backend/pkg/logger"
	"aeobro.backend/pkg/metrics"
	appredis "aeobro.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Access tokens are minted by the account service; this value only matters for tokens
// issued locally by tooling.
const accessTokenExpiry = 15 * time.Minute

var (
	loadDotenv   = godotenv.Load
	loadCfg      = config.Load
	initLog      = logger.Init
	connectRedis = appredis.Connect
	openDB       = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		db, err := postgres.NewGorm(sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}
	newPublisher = func(cfg config.EventsConfig) (events.Publisher, func() error) {
		if len(cfg.KafkaBrokers) == 0 {
			return events.Noop{}, func() error { return nil }
		}
		p := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic, cfg.PublishTimeout)
		return p, p.Close
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis backs the rate limiter and the public render cache only
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		client, err := connectRedis(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		rdb = client
		defer rdb.Close()
		logger.Info(ctx, "Redis initialized")
	} else {
		logger.Warn(ctx, "Redis disabled; rate limiting and public cache are off")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to PostgreSQL via GORM")

	publisher, closePublisher := newPublisher(cfg.Events)
	defer func() {
		if err := closePublisher(); err != nil {
			logger.Warn(ctx, "Failed to close event publisher", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var (
		limiter      ratelimit.Limiter  = ratelimit.AllowAll{}
		profileCache cache.ProfileCache = cache.Noop{}
	)
	if rdb != nil {
		limiter = ratelimit.NewFixedWindow(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		profileCache = cache.NewRedisProfileCache(rdb, cfg.Cache.PublicTTL)
	}

	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(db)
	claimRepo := repositories.NewDomainClaimRepository(db)
	bioCodeRepo := repositories.NewBioCodeRepository(db)
	accountRepo := repositories.NewPlatformAccountRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Outbound adapters
	resolver := dns.New(cfg.Verify.DNSResolver, cfg.Verify.DoHEndpoint, cfg.Verify.UserAgent, cfg.Verify.DNSTimeout)
	fetcher := webfetch.NewFetcher(cfg.Verify.FetchTimeout, cfg.Verify.UserAgent, cfg.Providers.GitHubAPIBase)
	registry := providers.NewRegistry(
		providers.NewYouTubeAdapter(cfg.Providers.YouTubeAPIBase, cfg.Verify.FetchTimeout),
		providers.NewInstagramAdapter(cfg.Providers.GraphAPIBase, cfg.Verify.FetchTimeout),
		providers.NewTikTokAdapter(cfg.Providers.TikTokAPIBase, cfg.Verify.FetchTimeout),
		providers.NewLinkedInAdapter(cfg.Providers.LinkedInAPIBase, cfg.Verify.FetchTimeout),
		providers.NewXAdapter(cfg.Providers.XAPIBase, cfg.Verify.FetchTimeout),
	)

	obs := usecases.VerificationObservers{
		Cache:          profileCache,
		Events:         publisher,
		Metrics:        m,
		PublishTimeout: cfg.Events.PublishTimeout,
	}

	// Initialize usecases
	domainUsecase := usecases.NewDomainVerificationUsecase(profileRepo, claimRepo, uow, resolver, cfg.Verify.DNSTimeout, obs)
	bioUsecase := usecases.NewBioVerificationUsecase(profileRepo, bioCodeRepo, uow, fetcher, cfg.Verify.BioDefaultTTL, obs)
	platformUsecase := usecases.NewPlatformConnectionUsecase(profileRepo, accountRepo, uow, registry, obs)
	statusUsecase := usecases.NewVerificationStatusUsecase(profileRepo)
	schemaUsecase := usecases.NewSchemaExportUsecase(profileRepo, profileCache)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, accessTokenExpiry)

	// Start background jobs
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sweepJob := jobs.NewBioCodeSweepJob(bioCodeRepo, cfg.Verify.BioSweepEvery)
	go sweepJob.Start(jobCtx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, reg)
	registerAPIV1Routes(r, routeDeps{
		domainHandler:   handlers.NewDomainVerificationHandler(domainUsecase),
		bioHandler:      handlers.NewBioVerificationHandler(bioUsecase),
		platformHandler: handlers.NewPlatformHandler(platformUsecase),
		statusHandler:   handlers.NewVerificationStatusHandler(statusUsecase),
		schemaHandler:   handlers.NewSchemaHandler(schemaUsecase),
		authMiddleware:  middleware.AuthMiddleware(jwtService),
		rateLimit:       middleware.RateLimitMiddleware(limiter, m),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Registered route", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		sweepJob.Stop()
		cancel()
	}()

	logger.Info(ctx, "AEOBRO verification service starting",
		zap.String("port", cfg.Server.Port),
		zap.String("dns_resolver", cfg.Verify.DNSResolver),
		zap.Strings("platforms", platformNames(registry)),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		sweepJob.Stop()
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func platformNames(r *providers.Registry) []string {
	var out []string
	for _, p := range r.Platforms() {
		out = append(out, string(p))
	}
	return out
}
