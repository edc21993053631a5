package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mealseek/models"
	"mealseek/utils"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPClient implements Client over the agent service's REST endpoints.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewHTTPClient builds a client for the agent service at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Prompt sends one chat turn and returns the agent's reply text.
func (c *HTTPClient) Prompt(ctx context.Context, sessionID, message string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal prompt payload: %w", err)
	}

	url := fmt.Sprintf("%s/prompt/%s", c.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build prompt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("prompt request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{Status: resp.StatusCode, Detail: errorDetail(raw)}
	}

	return string(raw), nil
}

// PromptResponse fetches the recommended candidates for a session. A 2xx
// response that doesn't decode is treated as an empty candidate list rather
// than an error; the flow layer turns empty into a "no restaurants found"
// report instead of a failure.
func (c *HTTPClient) PromptResponse(ctx context.Context, sessionID string) ([]models.CandidateRestaurant, error) {
	url := fmt.Sprintf("%s/prompt_response/%s", c.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommendation request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Detail: errorDetail(raw)}
	}

	var payload struct {
		Restaurants []models.CandidateRestaurant `json:"restaurants"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		utils.GetLogger().Warn("Malformed recommendation payload, treating as empty",
			zap.String("sessionID", sessionID), zap.Error(err))
		return nil, nil
	}

	return payload.Restaurants, nil
}

// errorDetail extracts the {detail} field from a JSON error body, falling
// back to the raw text.
func errorDetail(raw []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return "Server returned an error."
}

var _ Client = (*HTTPClient)(nil)
