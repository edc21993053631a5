package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealseek/config"
)

const appVersion = "1.0.0"

// HealthCheck reports service status and whether the Places key is set.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"version":            appVersion,
		"api_key_configured": config.AppConfig.GoogleAPIKey != "",
	})
}
