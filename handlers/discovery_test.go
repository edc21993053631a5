package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealseek/models"
	"mealseek/services/discovery"
)

type stubFlowService struct {
	newSessionFn         func(ctx context.Context) (*models.DiscoverySession, error)
	startSearchFn        func(ctx context.Context, sessionID, query string) (*models.DiscoverySession, error)
	sendReplyFn          func(ctx context.Context, sessionID, text string) (*models.DiscoverySession, error)
	getRecommendationsFn func(ctx context.Context, sessionID string) (*models.DiscoverySession, error)
	getSessionFn         func(ctx context.Context, sessionID string) (*models.DiscoverySession, error)
	restartFn            func(ctx context.Context, sessionID string) error
	listSessionsFn       func(ctx context.Context) ([]string, error)
}

func (s *stubFlowService) NewSession(ctx context.Context) (*models.DiscoverySession, error) {
	return s.newSessionFn(ctx)
}

func (s *stubFlowService) StartSearch(ctx context.Context, sessionID, query string) (*models.DiscoverySession, error) {
	return s.startSearchFn(ctx, sessionID, query)
}

func (s *stubFlowService) SendReply(ctx context.Context, sessionID, text string) (*models.DiscoverySession, error) {
	return s.sendReplyFn(ctx, sessionID, text)
}

func (s *stubFlowService) GetRecommendations(ctx context.Context, sessionID string) (*models.DiscoverySession, error) {
	return s.getRecommendationsFn(ctx, sessionID)
}

func (s *stubFlowService) GetSession(ctx context.Context, sessionID string) (*models.DiscoverySession, error) {
	return s.getSessionFn(ctx, sessionID)
}

func (s *stubFlowService) Restart(ctx context.Context, sessionID string) error {
	return s.restartFn(ctx, sessionID)
}

func (s *stubFlowService) ListSessions(ctx context.Context) ([]string, error) {
	return s.listSessionsFn(ctx)
}

func discoveryRouter(svc discovery.FlowService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDiscoveryHandler(svc)
	api := r.Group("/api/discovery")
	api.POST("/session", h.CreateSession)
	api.GET("/sessions", h.ListSessions)
	api.GET("/session/:sessionID", h.GetSession)
	api.POST("/session/:sessionID/search", h.StartSearch)
	api.POST("/session/:sessionID/reply", h.SendReply)
	api.POST("/session/:sessionID/recommendations", h.GetRecommendations)
	api.DELETE("/session/:sessionID", h.Restart)
	return r
}

func TestCreateSessionReturnsID(t *testing.T) {
	r := discoveryRouter(&stubFlowService{
		newSessionFn: func(ctx context.Context) (*models.DiscoverySession, error) {
			return &models.DiscoverySession{SessionID: "fresh-id", Phase: models.PhaseInitial}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/session", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fresh-id", resp["sessionID"])
	assert.Equal(t, "initial", resp["phase"])
}

func TestStartSearchReturnsSessionSnapshot(t *testing.T) {
	r := discoveryRouter(&stubFlowService{
		startSearchFn: func(ctx context.Context, sessionID, query string) (*models.DiscoverySession, error) {
			assert.Equal(t, "sess-1", sessionID)
			assert.Equal(t, "tapas near Palermo", query)
			return &models.DiscoverySession{SessionID: sessionID, Phase: models.PhaseChatting}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/session/sess-1/search",
		strings.NewReader(`{"query": "tapas near Palermo"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phase":"chatting"`)
}

func TestStartSearchBlankInputIs400(t *testing.T) {
	r := discoveryRouter(&stubFlowService{
		startSearchFn: func(ctx context.Context, sessionID, query string) (*models.DiscoverySession, error) {
			return nil, discovery.ErrBlankInput
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/session/sess-1/search",
		strings.NewReader(`{"query": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendReplyErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"in flight", discovery.ErrRequestInFlight, http.StatusConflict},
		{"wrong phase", discovery.ErrWrongPhase, http.StatusConflict},
		{"unknown session", discovery.ErrSessionNotFound, http.StatusNotFound},
		{"blank", discovery.ErrBlankInput, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := discoveryRouter(&stubFlowService{
				sendReplyFn: func(ctx context.Context, sessionID, text string) (*models.DiscoverySession, error) {
					return nil, tc.err
				},
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/discovery/session/sess-1/reply",
				strings.NewReader(`{"message": "hello"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestSendReplyAgentFailureCarriesSessionSnapshot(t *testing.T) {
	r := discoveryRouter(&stubFlowService{
		sendReplyFn: func(ctx context.Context, sessionID, text string) (*models.DiscoverySession, error) {
			return &models.DiscoverySession{
				SessionID:  sessionID,
				Phase:      models.PhaseChatting,
				DraftReply: text,
			}, errors.New("upstream timeout")
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/session/sess-1/reply",
		strings.NewReader(`{"message": "cheap eats"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"draftReply":"cheap eats"`)
}

func TestGetSessionNotFound(t *testing.T) {
	r := discoveryRouter(&stubFlowService{
		getSessionFn: func(ctx context.Context, sessionID string) (*models.DiscoverySession, error) {
			return nil, discovery.ErrSessionNotFound
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/discovery/session/ghost", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSessionsEmptyIsArray(t *testing.T) {
	r := discoveryRouter(&stubFlowService{
		listSessionsFn: func(ctx context.Context) ([]string, error) {
			return nil, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/discovery/sessions", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessions": []}`, w.Body.String())
}

func TestRestartOK(t *testing.T) {
	var restarted string
	r := discoveryRouter(&stubFlowService{
		restartFn: func(ctx context.Context, sessionID string) error {
			restarted = sessionID
			return nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/discovery/session/sess-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", restarted)
}
