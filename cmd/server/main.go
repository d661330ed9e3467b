package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garudlab/sweepquiz/internal/api"
	"github.com/garudlab/sweepquiz/internal/cache"
	"github.com/garudlab/sweepquiz/internal/config"
	"github.com/garudlab/sweepquiz/internal/db"
	"github.com/garudlab/sweepquiz/internal/logger"
	"github.com/garudlab/sweepquiz/internal/question"
	"github.com/garudlab/sweepquiz/internal/repository/sqlite"
	"github.com/garudlab/sweepquiz/internal/services"
	"github.com/garudlab/sweepquiz/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("SweepQuiz Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("redis_addr=%s", cfg.RedisAddr)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_questions=%d", cfg.SessionQuestions)
	log.Debug("session_ttl_minutes=%d", cfg.SessionTTLMinutes)
	log.Debug("image_pool_size=%d", cfg.ImagePoolSize)
	log.Debug("leaderboard_page_size=%d", cfg.LeaderboardPageSize)
	log.Debug("min_submit_attempts=%d", cfg.MinSubmitAttempts)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	playerRepo := sqlite.NewPlayerRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)
	leaderboardRepo := sqlite.NewLeaderboardRepository(database.DB)

	var leaderboardCache *cache.LeaderboardCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable at %s, running without cache: %v", cfg.RedisAddr, err)
		} else {
			leaderboardCache = cache.NewLeaderboardCache(client, 5*time.Minute)
			log.Info("leaderboard cache enabled (redis at %s)", cfg.RedisAddr)
		}
	}

	cachePool := worker.NewPool(cfg.CacheWorkerCount, cfg.CacheQueueSize)

	picker := question.New(cfg.ImagePoolSize, time.Now().UnixNano())
	playerService := services.NewPlayerService(playerRepo)
	sessionService := services.NewSessionService(statsRepo, picker,
		cfg.SessionQuestions, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	statsService := services.NewStatsService(statsRepo)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, leaderboardCache, cfg.LeaderboardPageSize)
	submissionService := services.NewSubmissionService(statsRepo, leaderboardRepo,
		cachePool, leaderboardService, cfg.MinSubmitAttempts)

	srv := &api.Server{
		PlayerService:      playerService,
		SessionService:     sessionService,
		StatsService:       statsService,
		LeaderboardService: leaderboardService,
		SubmissionService:  submissionService,
		ImageDir:           cfg.ImageDir,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cachePool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	cachePool.Stop()

	log.Info("===========================================")
	log.Info("SweepQuiz Server Stopped")
	log.Info("===========================================")
}
