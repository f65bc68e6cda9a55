package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/jobsight/jobsight-go/internal/cache"
	"github.com/jobsight/jobsight-go/internal/config"
	"github.com/jobsight/jobsight-go/internal/crypto"
	"github.com/jobsight/jobsight-go/internal/handler"
	"github.com/jobsight/jobsight-go/internal/insights"
	"github.com/jobsight/jobsight-go/internal/jobsearch"
	"github.com/jobsight/jobsight-go/internal/middleware"
	"github.com/jobsight/jobsight-go/internal/repository"
	"github.com/jobsight/jobsight-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	setupLogger(cfg)

	jobsClient := jobsearch.NewClient(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaBaseURL, cfg.AdzunaCountry, cfg.JobAPITimeout)
	aiClient := insights.NewClient(cfg.AIEndpoint, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	aiClient.UseBearerAuth(cfg.AIBearerAuth())

	pageCache := cache.NewRedis(context.Background(), cfg.RedisURL, cfg.SearchCacheTTL)
	defer pageCache.Close()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureHeaders(cfg.IsProduction()))

	// NewDB only fails on a malformed DSN; an unreachable server is logged
	// there and retried by the pool on first use.
	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("invalid database DSN, API routes disabled", "error", err)
	} else {
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repository.EnsureSchema(ctx, db); err != nil {
			slog.Error("schema bootstrap failed", "error", err)
		}
		cancel()

		userRepo := repository.NewUserRepository(db)
		savedRepo := repository.NewSavedJobRepository(db)
		historyRepo := repository.NewSearchHistoryRepository(db)

		tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

		authService := service.NewAuthService(userRepo, tokens)
		searchService := service.NewSearchService(jobsClient, aiClient, historyRepo, savedRepo, pageCache, service.SearchOptions{
			PageSize:   cfg.JobsPerPage,
			SampleSize: cfg.AISampleSize,
		})
		jobInfoService := service.NewJobInfoService(jobsClient, aiClient, pageCache)
		savedService := service.NewSavedJobService(savedRepo, cfg.JobsPerPage)
		profileService := service.NewProfileService(userRepo, historyRepo, savedRepo)

		authHandler := handler.NewAuthHandler(authService, cfg.CookieSecure)
		jobsHandler := handler.NewJobsHandler(searchService, jobInfoService)
		savedHandler := handler.NewSavedJobHandler(savedService)
		profileHandler := handler.NewProfileHandler(profileService)

		r.Route("/api/v1", func(r chi.Router) {
			r.With(middleware.RateLimit(middleware.PerMinute(3))).Post("/auth/register", authHandler.HandleRegister)
			r.With(middleware.RateLimit(middleware.PerMinute(5))).Post("/auth/login", authHandler.HandleLogin)
			r.Post("/auth/logout", authHandler.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(tokens))

				r.Get("/auth/me", authHandler.HandleMe)

				r.Get("/jobs/search", jobsHandler.HandleSearch)
				r.Get("/jobs/categories", jobsHandler.HandleCategories)
				r.Post("/jobs/summary", jobsHandler.HandleDescriptionSummary)

				r.Get("/saved-jobs", savedHandler.HandleList)
				r.Post("/saved-jobs", savedHandler.HandleSave)
				r.Delete("/saved-jobs/{job_id}", savedHandler.HandleUnsave)

				r.Get("/profile", profileHandler.HandleGet)
				r.Put("/profile", profileHandler.HandleUpdate)
				r.Get("/search-history", profileHandler.HandleHistory)
			})
		})
	}

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	cacheUp := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return pageCache.Ping(ctx) == nil
	}
	health := handler.NewHealthHandler(pinger, jobsClient.Configured, aiClient.Configured, cacheUp, getVersion())
	r.Get("/health", health.HandleHealth)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		// Searches wait on both upstream calls.
		WriteTimeout: cfg.JobAPITimeout + cfg.AITimeout + 10*time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "cache", pageCache.Enabled())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h).With("service", "jobsight"))
}

func getVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "1.0.0"
}
