package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hack-neuron/frontend/internal/config"
	"github.com/hack-neuron/frontend/internal/handler"
	"github.com/hack-neuron/frontend/internal/middleware"
	"github.com/hack-neuron/frontend/internal/service"
	"github.com/hack-neuron/frontend/pkg/backend"
	"github.com/hack-neuron/frontend/pkg/metadata"
)

// main is the application entrypoint for the Neuramark API gateway.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting api gateway")

	// 3. Load signing key pair (held read-only for the process lifetime)
	tokenSvc, err := service.NewTokenService(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	if err != nil {
		log.Error().Err(err).Msg("key pair loading failed")
		fmt.Fprintf(os.Stderr, "key pair loading failed: %v\n", err)
		os.Exit(1)
	}

	// 4. Initialize upstream clients
	metadataClient := metadata.NewClient(cfg.Metadata.BaseURL, cfg.Metadata.Timeout)
	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	// 5. Initialize services
	authSvc := service.NewAuthService(tokenSvc, metadataClient)

	// 6. Initialize handlers
	appHandler := handler.NewApplicationHandler(authSvc, tokenSvc, metadataClient)
	proxyHandler := handler.NewProxyHandler(backendClient, cfg.Upload.MaxFileSize)
	healthHandler := handler.NewHealthHandler()

	// 7. Initialize middleware
	tokenMw := middleware.NewTokenMiddleware(authSvc)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxFileSize
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	handler.RegisterRoutes(router, appHandler, proxyHandler, healthHandler, tokenMw)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
