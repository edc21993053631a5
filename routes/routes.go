package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mealseek/handlers"
)

// RegisterDiscoveryRoutes registers the interaction-flow endpoints.
func RegisterDiscoveryRoutes(r *gin.Engine, dh *handlers.DiscoveryHandler) {
	api := r.Group("/api/discovery")
	{
		api.POST("/session", dh.CreateSession)
		api.GET("/sessions", dh.ListSessions)
		api.GET("/session/:sessionID", dh.GetSession)
		api.POST("/session/:sessionID/search", dh.StartSearch)
		api.POST("/session/:sessionID/reply", dh.SendReply)
		api.POST("/session/:sessionID/recommendations", dh.GetRecommendations)
		api.DELETE("/session/:sessionID", dh.Restart)
	}
}

// RegisterProxyRoutes registers the same-origin proxy endpoint.
func RegisterProxyRoutes(r *gin.Engine, ph *handlers.ProxyHandler) {
	r.GET("/api/proxy", ph.Proxy)
}

// RegisterPlacesRoutes registers the direct place-details lookup.
func RegisterPlacesRoutes(r *gin.Engine, ph *handlers.PlacesHandler) {
	r.GET("/api/restaurants/:placeID", ph.GetRestaurantDetails)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/api/health", handlers.HealthCheck)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, dh *handlers.DiscoveryHandler, proxy *handlers.ProxyHandler, places *handlers.PlacesHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDiscoveryRoutes(r, dh)
	RegisterProxyRoutes(r, proxy)
	RegisterPlacesRoutes(r, places)
	RegisterHealthRoute(r)
}
