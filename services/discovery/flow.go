package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealseek/models"
	"mealseek/utils"
)

// NewSession creates an empty session in phase initial.
func (s *DefaultFlowService) NewSession(ctx context.Context) (*models.DiscoverySession, error) {
	session := &models.DiscoverySession{
		SessionID: uuid.New().String(),
		Phase:     models.PhaseInitial,
		CreatedAt: time.Now(),
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// StartSearch kicks off the conversation from the user's initial query.
// Blank queries and sessions with a request already in flight are rejected
// without touching state. The session is created on the fly when missing,
// matching the agent service's own auto-created sessions.
func (s *DefaultFlowService) StartSearch(ctx context.Context, sessionID, query string) (*models.DiscoverySession, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrBlankInput
	}
	if err := s.begin(sessionID); err != nil {
		return nil, err
	}
	defer s.end(sessionID)

	session, err := s.Store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		session = &models.DiscoverySession{SessionID: sessionID, CreatedAt: time.Now()}
	} else if err != nil {
		return nil, err
	}

	// Clear prior artifacts; the session id itself is never rotated, so all
	// turns across a page lifetime share one agent-side history.
	session.Phase = models.PhaseChatting
	session.ChatHistory = []models.ChatMessage{{Role: models.RoleUser, Content: query}}
	session.Restaurants = nil
	session.Progress = 0
	session.Enriching = false
	session.ChatComplete = false
	session.Error = ""
	session.DraftReply = ""
	session.FlowSteps = []models.FlowStep{
		{
			ID:        models.StepUserQuery,
			Actor:     "User",
			Action:    "Initiated search",
			Status:    models.StepCompleted,
			Timestamp: stepTimestamp(),
			Details:   query,
		},
		{
			ID:        models.StepInformationAgent,
			Actor:     "Information Agent",
			Action:    "Starting conversation...",
			Status:    models.StepInProgress,
			Timestamp: stepTimestamp(),
		},
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	reply, err := s.Agent.Prompt(ctx, sessionID, query)
	if err != nil {
		utils.GetLogger().Error("Initial chat turn failed",
			zap.String("sessionID", sessionID), zap.Error(err))
		s.failSession(ctx, session, "Chat initialization failed", fmt.Sprintf("Failed to start chat: %v", err))
		return session, err
	}

	session.ChatHistory = append(session.ChatHistory, models.ChatMessage{Role: models.RoleAgent, Content: reply})
	updateStep(session, models.StepInformationAgent, func(step *models.FlowStep) {
		step.Status = models.StepInProgress
		step.Action = "Waiting for user response"
		step.Details = "Agent asked: " + truncateDetail(reply)
	})
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SendReply forwards one chat turn. Only the newest utterance is sent; the
// agent service holds the transcript keyed by session id. On failure the
// optimistic user message is rolled back and the text is parked in
// DraftReply so the client can restore the input; the phase stays chatting
// so the user can retry.
func (s *DefaultFlowService) SendReply(ctx context.Context, sessionID, text string) (*models.DiscoverySession, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankInput
	}
	if err := s.begin(sessionID); err != nil {
		return nil, err
	}
	defer s.end(sessionID)

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase != models.PhaseChatting {
		return nil, ErrWrongPhase
	}

	session.ChatHistory = append(session.ChatHistory, models.ChatMessage{Role: models.RoleUser, Content: text})
	session.DraftReply = ""
	updateStep(session, models.StepInformationAgent, func(step *models.FlowStep) {
		step.Status = models.StepInProgress
		step.Action = "Processing user reply..."
		step.Details = "User said: " + truncateDetail(text)
	})
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	reply, promptErr := s.Agent.Prompt(ctx, sessionID, text)
	if promptErr != nil {
		utils.GetLogger().Warn("Chat turn failed",
			zap.String("sessionID", sessionID), zap.Error(promptErr))
		// Reconcile the optimistic message: history returns to its length
		// before this call and the input is preserved for a manual retry.
		session.ChatHistory = session.ChatHistory[:len(session.ChatHistory)-1]
		session.DraftReply = text
		session.Error = fmt.Sprintf("Chat failed: %v", promptErr)
		updateStep(session, models.StepInformationAgent, func(step *models.FlowStep) {
			step.Status = models.StepError
			step.Details = fmt.Sprintf("Failed: %v", promptErr)
		})
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, promptErr
	}

	session.ChatHistory = append(session.ChatHistory, models.ChatMessage{Role: models.RoleAgent, Content: reply})
	session.Error = ""
	// The agent endpoint exposes no structured completion flag, so the chat
	// is never marked complete; proceeding is always the user's call.
	updateStep(session, models.StepInformationAgent, func(step *models.FlowStep) {
		step.Status = models.StepInProgress
		step.Action = "Waiting for user response"
		step.Details = "Agent asked: " + truncateDetail(reply)
	})
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns the current snapshot.
func (s *DefaultFlowService) GetSession(ctx context.Context, sessionID string) (*models.DiscoverySession, error) {
	return s.Store.Get(ctx, sessionID)
}

// Restart discards the session entirely.
func (s *DefaultFlowService) Restart(ctx context.Context, sessionID string) error {
	return s.Store.Delete(ctx, sessionID)
}

// ListSessions returns the ids of all live sessions.
func (s *DefaultFlowService) ListSessions(ctx context.Context) ([]string, error) {
	return s.Store.List(ctx)
}

// failSession marks all pending/in-progress steps as failed, appends a
// System entry and moves the session to the error phase. Failures never
// crash the flow; they leave the log and transcript inspectable.
func (s *DefaultFlowService) failSession(ctx context.Context, session *models.DiscoverySession, action, message string) {
	for i := range session.FlowSteps {
		switch session.FlowSteps[i].Status {
		case models.StepInProgress, models.StepPending:
			session.FlowSteps[i].Status = models.StepError
			session.FlowSteps[i].Details = message
		}
	}
	session.FlowSteps = append(session.FlowSteps, models.FlowStep{
		ID:        models.FlowStepID("system-" + uuid.New().String()),
		Actor:     "System",
		Action:    action,
		Status:    models.StepError,
		Details:   message,
		Timestamp: stepTimestamp(),
	})
	session.Phase = models.PhaseError
	session.Error = message
	if err := s.Store.Save(ctx, session); err != nil {
		utils.GetLogger().Error("Failed to save session after failure",
			zap.String("sessionID", session.SessionID), zap.Error(err))
	}
}

// updateStep rewrites the step with the given id in place.
func updateStep(session *models.DiscoverySession, id models.FlowStepID, apply func(*models.FlowStep)) {
	for i := range session.FlowSteps {
		if session.FlowSteps[i].ID == id {
			apply(&session.FlowSteps[i])
			return
		}
	}
}
