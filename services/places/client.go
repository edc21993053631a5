// Package places fetches per-place details from the Google Places API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"mealseek/models"
	"mealseek/utils"
)

const defaultRequestTimeout = 10 * time.Second

// DetailsFetcher resolves a place id to its details payload.
type DetailsFetcher interface {
	// Details returns (nil, nil) when the upstream has no usable result for
	// the place; the caller degrades the candidate instead of failing.
	// One attempt per call, no retry.
	Details(ctx context.Context, placeID string) (*models.PlaceDetails, error)
}

// HTTPClient implements DetailsFetcher against the Place Details endpoint.
// Successful lookups are cached in-process so a re-run of the same session
// doesn't re-burst the upstream.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client

	mu    sync.RWMutex
	cache map[string]*models.PlaceDetails
}

// NewHTTPClient builds a Places client for baseURL with the given API key.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: defaultRequestTimeout},
		cache:   make(map[string]*models.PlaceDetails),
	}
}

// detailsResponse is the upstream envelope around the details payload.
type detailsResponse struct {
	Result *models.PlaceDetails `json:"result"`
	Status string               `json:"status"`
}

// Details fetches details for one place id.
func (c *HTTPClient) Details(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	c.mu.RLock()
	if cached, ok := c.cache[placeID]; ok {
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	url := fmt.Sprintf("%s/maps/api/place/details/json?place_id=%s&key=%s", c.BaseURL, placeID, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build place details request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place details request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.GetLogger().Warn("Place details returned non-OK status",
			zap.String("placeID", placeID), zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var details detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		utils.GetLogger().Warn("Failed to decode place details response",
			zap.String("placeID", placeID), zap.Error(err))
		return nil, nil
	}
	if details.Result == nil {
		return nil, nil
	}

	c.mu.Lock()
	c.cache[placeID] = details.Result
	c.mu.Unlock()

	return details.Result, nil
}

var _ DetailsFetcher = (*HTTPClient)(nil)
