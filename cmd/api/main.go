package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abduss/docstore/internal/auth"
	"github.com/abduss/docstore/internal/config"
	"github.com/abduss/docstore/internal/file"
	"github.com/abduss/docstore/internal/logger"
	"github.com/abduss/docstore/internal/metrics"
	"github.com/abduss/docstore/internal/presigned"
	"github.com/abduss/docstore/internal/report"
	"github.com/abduss/docstore/internal/server"
	"github.com/abduss/docstore/internal/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	zapLogger, err := logger.Init()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("load config", zap.Error(err))
	}

	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		zapLogger.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	if err := storage.Migrate(cfg.Postgres, zapLogger); err != nil {
		zapLogger.Fatal("migrate postgres", zap.Error(err))
	}

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		zapLogger.Fatal("connect minio", zap.Error(err))
	}

	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		zapLogger.Fatal("ensure bucket", zap.Error(err))
	}

	authRepo := auth.NewRepository(dbPool)
	authService := auth.NewService(authRepo, cfg.Auth, zapLogger)

	fileRepo := file.NewRepository(dbPool)
	fileStore := file.NewMinIOStore(minioClient, cfg.MinIO.Bucket)
	fileService := file.NewService(fileRepo, fileStore, report.NewDocxRenderer(), cfg.Files.MaxUploadBytes, zapLogger)

	presignedService := presigned.NewService(minioClient, fileService, cfg.MinIO.Bucket, cfg.Files.PresignTTL, zapLogger)

	router := server.NewRouter(server.Dependencies{
		Config:           cfg,
		DB:               dbPool,
		ObjectStore:      minioClient,
		AuthService:      authService,
		FileService:      fileService,
		PresignedService: presignedService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Info("docstore API listening",
			zap.String("addr", cfg.Server.Address()),
			zap.Bool("auth_enabled", cfg.Auth.Enabled),
			zap.Int64("max_upload_bytes", cfg.Files.MaxUploadBytes))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	zapLogger.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown", zap.Error(err))
	}
}
