package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vytor/lingoflash/internal/api"
	"github.com/vytor/lingoflash/internal/auth"
	"github.com/vytor/lingoflash/internal/config"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/llm"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/services"
	"golang.org/x/crypto/bcrypt"
)

// requestTimeout bounds a whole request, including LLM retries.
const requestTimeout = 2 * time.Minute

func main() {
	cfg := config.Load()

	// Initialize logger
	jsonLogs := strings.EqualFold(cfg.LogFormat, "json")
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(!jsonLogs),
		logger.WithJSON(jsonLogs),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LingoFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("default_daily_goal=%d", cfg.DefaultDailyGoal)
	log.Debug("streak_window_days=%d", cfg.StreakWindowDays)
	log.Debug("llm_provider=%s", cfg.LLMProvider)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, closeProvider, err := llm.FromConfig(ctx, &cfg)
	if err != nil {
		log.Error("failed to configure LLM provider: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeProvider(); err != nil {
			log.Warn("failed to close LLM provider: %v", err)
		}
	}()
	log.Info("LLM provider: %s", provider.Name())

	// Repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	profileRepo := sqlite.NewProfileRepository(database.DB)
	exerciseRepo := sqlite.NewExerciseRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	chatRepo := sqlite.NewChatRepository(database.DB)

	// Initialize services
	hasher := auth.NewHasher(bcrypt.DefaultCost)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())

	srv := &api.Server{
		DB:              database,
		AuthService:     services.NewAuthService(userRepo, profileRepo, hasher, tokens, cfg.DefaultDailyGoal),
		ProfileService:  services.NewProfileService(profileRepo, cfg.DefaultDailyGoal),
		ExerciseService: services.NewExerciseService(exerciseRepo, profileRepo, provider),
		AttemptService:  services.NewAttemptService(exerciseRepo, attemptRepo),
		ProgressService: services.NewProgressService(attemptRepo, profileRepo, services.ProgressConfig{
			Location:         cfg.Location(),
			StreakWindowDays: cfg.StreakWindowDays,
			RecentLimit:      cfg.RecentAttemptsLimit,
			DefaultDailyGoal: cfg.DefaultDailyGoal,
		}),
		ChatService:    services.NewChatService(chatRepo, profileRepo, provider),
		CORSOrigins:    splitOrigins(cfg.CORSOrigin),
		RequestTimeout: requestTimeout,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("LingoFlash Server Stopped")
	log.Info("===========================================")
}

// splitOrigins accepts a comma separated CORS_ORIGIN.
func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
