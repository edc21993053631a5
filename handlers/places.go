package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealseek/services/places"
)

// PlacesHandler exposes a direct place-details lookup.
type PlacesHandler struct {
	Fetcher places.DetailsFetcher
}

func NewPlacesHandler(fetcher places.DetailsFetcher) *PlacesHandler {
	return &PlacesHandler{Fetcher: fetcher}
}

// GetRestaurantDetails handles GET /api/restaurants/:placeID.
func (h *PlacesHandler) GetRestaurantDetails(c *gin.Context) {
	placeID := c.Param("placeID")
	if placeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing place id"})
		return
	}

	details, err := h.Fetcher.Details(c.Request.Context(), placeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	c.JSON(http.StatusOK, details)
}
