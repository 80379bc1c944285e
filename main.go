package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martinianod/chedoparti/config"
	"github.com/martinianod/chedoparti/handlers"
	"github.com/martinianod/chedoparti/middleware"
	"github.com/martinianod/chedoparti/routes"
	"github.com/martinianod/chedoparti/services/flow"
	"github.com/martinianod/chedoparti/services/gateway"
	"github.com/martinianod/chedoparti/services/intent"
	sessionstore "github.com/martinianod/chedoparti/services/session"
	"github.com/martinianod/chedoparti/services/whatsapp"
	"github.com/martinianod/chedoparti/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()
	redisClient := utils.GetSessionCacheClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Collaborators.
	store := sessionstore.NewRedisStore(redisClient, config.AppConfig.SessionTTL)

	gatewayClient := gateway.NewHTTPClient(config.AppConfig.APIGatewayURL, config.AppConfig.GatewayTimeout)

	extractor, err := intent.NewFromConfig(config.AppConfig)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize intent extractor: %v", err)
	}

	sender := whatsapp.NewGraphSender(
		config.AppConfig.WhatsAppAccessToken,
		config.AppConfig.WhatsAppPhoneNumberID,
	)

	flowService := &flow.DefaultFlowService{
		Extractor: extractor,
		Gateway:   gatewayClient,
		Logger:    logger,
	}

	webhookHandler := handlers.NewWebhookHandler(
		store,
		flowService,
		sender,
		config.AppConfig.WhatsAppVerifyToken,
		logger,
	)
	healthHandler := handlers.NewHealthHandler(redisClient)

	// Register routes.
	routes.RegisterRoutes(router, webhookHandler, healthHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
