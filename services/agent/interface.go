// Package agent wraps the external conversational and recommender agent
// service. Both endpoints mutate server-side session state keyed by the
// session id; the service itself is opaque beyond this contract.
package agent

import (
	"context"
	"fmt"

	"mealseek/models"
)

// Client talks to the agent service.
type Client interface {
	// Prompt sends one user utterance and returns the agent's raw text reply.
	// The agent holds the conversation history server-side, so only the
	// newest utterance is sent, never the whole transcript.
	Prompt(ctx context.Context, sessionID, message string) (string, error)

	// PromptResponse asks the recommender to derive candidates from the
	// stored chat history. No payload beyond the session id.
	PromptResponse(ctx context.Context, sessionID string) ([]models.CandidateRestaurant, error)
}

// RequestError reports a non-2xx or transport-level agent failure.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("agent request failed: status %d: %s", e.Status, e.Detail)
}
