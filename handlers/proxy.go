package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mealseek/utils"
)

// ProxyHandler forwards GET requests to allowlisted upstreams so the browser
// avoids cross-origin restrictions. It performs no transformation beyond
// re-serializing the upstream JSON.
type ProxyHandler struct {
	AllowedHosts []string
	Client       *http.Client
}

func NewProxyHandler(allowedHosts []string) *ProxyHandler {
	return &ProxyHandler{
		AllowedHosts: allowedHosts,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Proxy handles GET /api/proxy?url=<encoded upstream URL>.
func (h *ProxyHandler) Proxy(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing URL parameter"})
		return
	}

	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL parameter"})
		return
	}
	if !h.hostAllowed(target.Hostname()) {
		utils.GetLogger().Warn("Proxy request to non-allowlisted host rejected",
			zap.String("host", target.Hostname()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Upstream host not allowed"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch from the proxied URL"})
		return
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		utils.GetLogger().Error("Proxy upstream fetch failed",
			zap.String("url", target.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch from the proxied URL"})
		return
	}
	defer resp.Body.Close()

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch from the proxied URL"})
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

func (h *ProxyHandler) hostAllowed(host string) bool {
	for _, allowed := range h.AllowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
