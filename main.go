package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/auth"
	"github.com/fluentdeck/fluentdeck-engine/pkg/config"
	"github.com/fluentdeck/fluentdeck-engine/pkg/database"
	"github.com/fluentdeck/fluentdeck-engine/pkg/handlers"
	"github.com/fluentdeck/fluentdeck-engine/pkg/llm"
	"github.com/fluentdeck/fluentdeck-engine/pkg/middleware"
	"github.com/fluentdeck/fluentdeck-engine/pkg/repositories"
	"github.com/fluentdeck/fluentdeck-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database_host", cfg.Database.Host),
		zap.String("translation_model", cfg.Translation.Model))

	ctx := context.Background()
	dsn := cfg.Database.ConnectionString()

	// Migrations run on a plain database/sql handle; the pool below serves
	// requests.
	migrationDB, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            dsn,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional; without it rate limiting falls back to an
	// in-process counter.
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Auth
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to initialize JWKS client", zap.Error(err))
	}
	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	// Repositories
	categoryRepo := repositories.NewCategoryRepository()
	phraseRepo := repositories.NewPhraseRepository()
	profileRepo := repositories.NewProfileRepository()

	// Services
	llmClient, err := llm.NewClient(&llm.Config{
		Endpoint: cfg.Translation.Endpoint,
		Model:    cfg.Translation.Model,
		APIKey:   cfg.Translation.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	translator := services.NewTranslationService(llmClient, cfg.Translation.BatchSize, cfg.Translation.BatchDelay, logger.Named("translator"))

	categoryService := services.NewCategoryService(categoryRepo, phraseRepo, logger)
	phraseService := services.NewPhraseService(phraseRepo)
	profileService := services.NewProfileService(profileRepo, logger)
	bootstrapService := services.NewBootstrapService(profileRepo, categoryRepo, phraseRepo, translator, logger.Named("bootstrap"))

	// HTTP surface
	mux := http.NewServeMux()
	handlers.ExposeErrorDetails(cfg.IsDevelopment())

	scope := handlers.ScopeMiddleware(database.WithUserContext(db, logger))

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewCategoriesHandler(categoryService, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewPhrasesHandler(phraseService, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewProfileHandler(profileService, logger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewInitialDataHandler(categoryService, phraseService, bootstrapService, logger).RegisterRoutes(mux, authMiddleware, scope)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, redisClient, logger)

	var handler http.Handler = mux
	handler = rateLimiter.Handler(handler)
	handler = middleware.RequestLogger(logger)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting fluentdeck-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
