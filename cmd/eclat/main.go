package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/eclatbeaute/eclat/internal/ai"
	"github.com/eclatbeaute/eclat/internal/backup"
	"github.com/eclatbeaute/eclat/internal/database"
	"github.com/eclatbeaute/eclat/internal/logging"
	"github.com/eclatbeaute/eclat/internal/push"
	"github.com/eclatbeaute/eclat/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("ECLAT_LOG_LEVEL"), os.Getenv("ECLAT_LOG_FORMAT"))

	port := envOr("ECLAT_PORT", "8080")
	dbPath := envOr("ECLAT_DB_PATH", "eclat.db")

	jwtSecret := os.Getenv("ECLAT_JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("ECLAT_JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	aiClient, err := ai.NewClient(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		logger.Error("init ai client", "error", err)
		os.Exit(1)
	}
	if !aiClient.Configured() {
		logger.Warn("GEMINI_API_KEY not set, AI features run on fallbacks")
	}

	pushSender := push.NewSender(
		os.Getenv("ECLAT_VAPID_PUBLIC_KEY"),
		os.Getenv("ECLAT_VAPID_PRIVATE_KEY"),
	)
	if !pushSender.Configured() {
		logger.Warn("VAPID keys not set, push reminders disabled")
	}

	srv := server.New(db, aiClient, pushSender, []byte(jwtSecret), logger)

	var scheduler *push.Scheduler
	if pushSender.Configured() {
		scheduler = push.NewScheduler(pushSender, srv.PushStore(), srv.TaskStore(), logger.With("component", "push"))
		scheduler.Start(ctx)
	}

	backupCfg := backup.Config{
		Endpoint:  os.Getenv("ECLAT_BACKUP_ENDPOINT"),
		Bucket:    os.Getenv("ECLAT_BACKUP_BUCKET"),
		Region:    envOr("ECLAT_BACKUP_REGION", "eu-west-3"),
		AccessKey: os.Getenv("ECLAT_BACKUP_ACCESS_KEY"),
		SecretKey: os.Getenv("ECLAT_BACKUP_SECRET_KEY"),
		DBPath:    dbPath,
		Hour:      envIntOr("ECLAT_BACKUP_HOUR", 3),
	}
	backupMgr := backup.NewManager(backupCfg, db, logger.With("component", "backup"))
	backupMgr.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	go func() {
		logger.Info("Éclat en ligne", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if scheduler != nil {
		scheduler.Stop()
	}
	backupMgr.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
