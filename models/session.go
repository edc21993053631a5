package models

import "time"

// InteractionPhase is the single discrete state of a discovery session.
type InteractionPhase string

const (
	PhaseInitial      InteractionPhase = "initial"
	PhaseChatting     InteractionPhase = "chatting"
	PhaseRecommending InteractionPhase = "recommending"
	PhaseReport       InteractionPhase = "report"
	PhaseError        InteractionPhase = "error"
)

// ChatMessage is one turn of the clarification conversation.
// The transcript is append-only; entries are never mutated or reordered.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "agent"
	Content string `json:"content"`
}

const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// DiscoverySession holds all flow state between the search kickoff and the
// final report. It lives in the session cache for the lifetime of one
// browser visit and is never persisted beyond its TTL.
type DiscoverySession struct {
	SessionID    string           `json:"sessionId"`
	Phase        InteractionPhase `json:"phase"`
	ChatHistory  []ChatMessage    `json:"chatHistory"`
	FlowSteps    []FlowStep       `json:"flowSteps"`
	Restaurants  []Restaurant     `json:"restaurants,omitempty"`
	Progress     int              `json:"progress"` // enrichment percent complete
	Enriching    bool             `json:"enriching"`
	ChatComplete bool             `json:"chatComplete"`
	Error        string           `json:"error,omitempty"`
	// DraftReply carries a user utterance whose delivery failed, so the
	// client can restore it into the input field instead of losing it.
	DraftReply string    `json:"draftReply,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
