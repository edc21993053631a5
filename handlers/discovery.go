package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealseek/models"
	"mealseek/services/discovery"
)

// DiscoveryHandler exposes the interaction flow over HTTP.
type DiscoveryHandler struct {
	Svc discovery.FlowService
}

func NewDiscoveryHandler(svc discovery.FlowService) *DiscoveryHandler {
	return &DiscoveryHandler{Svc: svc}
}

// CreateSession mints a fresh session id for one browser visit.
func (h *DiscoveryHandler) CreateSession(c *gin.Context) {
	session, err := h.Svc.NewSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionID": session.SessionID, "phase": session.Phase})
}

// StartSearch begins the clarification conversation from the initial query.
func (h *DiscoveryHandler) StartSearch(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Svc.StartSearch(c.Request.Context(), sessionID, input.Query)
	if err != nil {
		h.respondFlowError(c, session, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SendReply forwards one chat turn to the information agent.
func (h *DiscoveryHandler) SendReply(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Svc.SendReply(c.Request.Context(), sessionID, input.Message)
	if err != nil {
		h.respondFlowError(c, session, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetRecommendations runs the recommendation and enrichment phases.
func (h *DiscoveryHandler) GetRecommendations(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Svc.GetRecommendations(c.Request.Context(), sessionID)
	if err != nil {
		h.respondFlowError(c, session, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSession returns the current snapshot; the UI polls this during
// enrichment for progress updates.
func (h *DiscoveryHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Svc.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.respondFlowError(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Restart discards the session so the user starts over from initial.
func (h *DiscoveryHandler) Restart(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Svc.Restart(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restart session", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSessions returns the ids of all live sessions.
func (h *DiscoveryHandler) ListSessions(c *gin.Context) {
	ids, err := h.Svc.ListSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions", "details": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": ids})
}

// respondFlowError maps service errors onto HTTP statuses. When the flow
// already recorded the failure in the session (phase error, annotated log),
// the snapshot rides along so the UI can render it.
func (h *DiscoveryHandler) respondFlowError(c *gin.Context, session *models.DiscoverySession, err error) {
	switch {
	case errors.Is(err, discovery.ErrBlankInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "input must not be blank"})
	case errors.Is(err, discovery.ErrRequestInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, discovery.ErrWrongPhase):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, discovery.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		if session != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "session": session})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
