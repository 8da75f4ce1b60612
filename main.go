package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/community-watch/backend/internal/client"
	"github.com/community-watch/backend/internal/config"
	"github.com/community-watch/backend/internal/handler"
	"github.com/community-watch/backend/internal/logging"
	"github.com/community-watch/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title Community Incident Analysis API
// @version 1.0
// @description Analyzes community incident reports with heuristic extraction and an AI service, with local fallback data.
// @BasePath /
func main() {
	// .env 는 로컬 개발용, 없으면 무시
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.Server.Mode)

	logger, err := logging.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.Install(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 키가 없어도 서버는 기동하고, 분석 요청만 CONFIGURATION_ERROR 로 응답
	generator, err := client.NewGenerator(ctx, cfg.AI)
	if err != nil {
		logger.Warn("AI generation disabled", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	} else {
		logger.Info("AI generation enabled", zap.String("provider", cfg.AI.Provider), zap.String("model", generator.Model()))
	}

	analysisService := service.NewAnalysisService(generator, cfg.AI.Timeout)
	reportService := service.NewReportService()

	router := handler.NewRouter(cfg,
		handler.NewAnalysisHandler(analysisService),
		handler.NewReportHandler(reportService),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
