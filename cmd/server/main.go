package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/config"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/di"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	level := "info"
	if cfg.App.Debug {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       level,
		ServiceName: cfg.App.Name,
		Development: !cfg.IsProduction(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal("wire dependencies", zap.Error(err))
	}
	defer container.Close()

	container.DispatchWorker.Start(ctx)

	router := buildRouter(cfg, container)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	cancel()
}

func buildRouter(cfg *config.Config, c *di.Container) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	// Rendered artifacts are served directly from the local store
	router.Static("/static", cfg.Artifacts.BaseDir)

	api := router.Group("/api/v1")
	api.Use(middleware.JWTMiddleware(&middleware.JWTConfig{
		Secret:    cfg.JWT.Secret,
		Blacklist: c.Blacklist,
	}))
	api.Use(middleware.TenantContext())
	{
		api.POST("/challan", c.ChallanHandler.Create)
		api.GET("/challans", c.ChallanHandler.List)
		api.GET("/challan/:challan_no", c.ChallanHandler.Get)
		api.PUT("/challan/:challan_no", c.ChallanHandler.Update)
		api.DELETE("/challan/:challan_no", c.ChallanHandler.Delete)
		api.POST("/challan/:challan_no/send_otp", c.ChallanHandler.SendOTP)
		api.POST("/challan/:challan_no/verify_otp", c.ChallanHandler.VerifyOTP)

		api.GET("/settings", c.SettingsHandler.Get)
		api.POST("/settings", c.SettingsHandler.Save)
		api.PUT("/settings", c.SettingsHandler.Save)
		api.DELETE("/settings", c.SettingsHandler.Delete)
		api.GET("/design", c.SettingsHandler.Design)
	}

	return router
}
