// File: mealseek/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mealseek/config"
	"mealseek/handlers"
	"mealseek/middleware"
	"mealseek/routes"
	"mealseek/services/agent"
	"mealseek/services/discovery"
	"mealseek/services/places"
	"mealseek/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// clients.
	agentClient := agent.NewHTTPClient(config.AppConfig.AgentURL)
	placesClient := places.NewHTTPClient(config.AppConfig.PlacesBaseURL, config.AppConfig.GoogleAPIKey)

	// services.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionStore := discovery.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)
	flowService := discovery.NewDefaultFlowService(agentClient, placesClient, sessionStore)

	// handlers.
	discoveryHandler := handlers.NewDiscoveryHandler(flowService)
	proxyHandler := handlers.NewProxyHandler(config.AppConfig.ProxyAllowedHosts)
	placesHandler := handlers.NewPlacesHandler(placesClient)

	routes.RegisterRoutes(router, discoveryHandler, proxyHandler, placesHandler)

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
