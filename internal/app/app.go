package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memberflow_backend/database"
	"memberflow_backend/internal/auth"
	"memberflow_backend/internal/config"
	"memberflow_backend/internal/handlers"
	"memberflow_backend/internal/logger"
	"memberflow_backend/internal/middleware"
	"memberflow_backend/internal/models"
	"memberflow_backend/internal/repositories"
	"memberflow_backend/internal/routes"
	"memberflow_backend/internal/services"
	"memberflow_backend/internal/storage"
	"memberflow_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole application from configuration and serves until
// SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	logger.Init(cfg.Server.Env)

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, err := storage.NewStorage(storage.Config{
		Endpoint:     cfg.Storage.Endpoint,
		Region:       cfg.Storage.Region,
		Bucket:       cfg.Storage.Bucket,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		UsePathStyle: cfg.Storage.UsePathStyle,
		DefaultTTL:   time.Duration(cfg.Storage.SignedURLTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	if err := seedAdmins(context.Background(), userRepo, cfg.Admin.BootstrapEmails); err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}

	router := SetupRouter(cfg, db, store)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// SetupRouter builds the gin engine with all routes mounted. Exported so
// tests can exercise the HTTP surface without a listening socket.
func SetupRouter(cfg *config.Config, db *gorm.DB, store storage.Storage) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo := repositories.NewUserRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	onboardingRepo := repositories.NewOnboardingRepository(db)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	signedTTL := time.Duration(cfg.Storage.SignedURLTTL) * time.Second

	authService := services.NewAuthService(userRepo, tokens, cfg.Admin.BootstrapEmails)
	appService := services.NewApplicationService(appRepo, store, services.ProofConfig{
		MaxSizeBytes: cfg.Proof.MaxSizeBytes,
		SignedURLTTL: signedTTL,
	})
	reviewService := services.NewReviewService(appRepo, store, signedTTL)
	onboardingService := services.NewOnboardingService(onboardingRepo, appRepo)

	base := handlers.NewBaseHandler(validator.New())

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestID(), middleware.Logging(), middleware.CORS())

	routes.Register(r, routes.Handlers{
		Auth:        handlers.NewAuthHandler(base, authService),
		Application: handlers.NewApplicationHandler(base, appService),
		Review:      handlers.NewReviewHandler(base, reviewService),
		Onboarding:  handlers.NewOnboardingHandler(base, onboardingService),
		Tokens:      tokens,
	})
	return r
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
	if cfg.Server.Env == "development" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	return gorm.Open(postgres.Open(cfg.Database.DSN), gormCfg)
}

// seedAdmins promotes already-registered users on the bootstrap list.
// Emails without an account are handled at registration time instead.
func seedAdmins(ctx context.Context, userRepo repositories.UserRepository, emails []string) error {
	for _, email := range emails {
		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				continue
			}
			return err
		}
		if user.Role == models.UserRoleAdmin {
			continue
		}
		if err := userRepo.UpdateRole(ctx, user.ID, models.UserRoleAdmin); err != nil {
			return err
		}
		logger.Info("promoted bootstrap admin", "email", email)
	}
	return nil
}
