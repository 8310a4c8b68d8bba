package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aidin1998/foodgram/api"
	"github.com/Aidin1998/foodgram/common/auth"
	"github.com/Aidin1998/foodgram/internal/config"
	"github.com/Aidin1998/foodgram/internal/database"
	"github.com/Aidin1998/foodgram/internal/identities"
	"github.com/Aidin1998/foodgram/internal/recipes"
	"github.com/Aidin1998/foodgram/pkg/logger"
	"github.com/Aidin1998/foodgram/pkg/tracing"
	"github.com/Aidin1998/foodgram/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Bootstrap logger until the configured one exists
	bootLogger, err := logger.NewLogger(logger.Options{Level: os.Getenv("LOG_LEVEL")})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	zapLogger, err := logger.NewLogger(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		bootLogger.Fatal("Failed to create logger", zap.Error(err))
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		zapLogger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("Failed to access database pool", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	go database.MonitorPool(ctx, db, cfg.Database.Driver, 30*time.Second)

	// Token revocations live in redis when configured, in memory otherwise
	var revocations auth.RevocationStore = auth.NewMemoryRevocationStore()
	redisClient, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = auth.NewRedisRevocationStore(redisClient)
	} else {
		zapLogger.Warn("Redis not configured, token revocations are kept in memory")
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, revocations)
	identitiesSvc := identities.NewService(zapLogger, db, tokens)
	recipesSvc := recipes.NewService(zapLogger, db, validation.NewValidator(zapLogger))

	apiServer := api.NewServer(zapLogger, cfg, tokens, identitiesSvc, recipesSvc, sqlDB)

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zapLogger.Error("API server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shut down API server", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zapLogger.Error("Failed to flush traces", zap.Error(err))
	}

	zapLogger.Info("Server exited properly")
}
