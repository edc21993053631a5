package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptReturnsRawReplyText(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte("Got it! Any dietary restrictions?"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	reply, err := client.Prompt(context.Background(), "abc123", "tapas near Palermo")
	require.NoError(t, err)

	assert.Equal(t, "/prompt/abc123", gotPath)
	assert.Equal(t, map[string]string{"message": "tapas near Palermo"}, gotBody)
	assert.Equal(t, "Got it! Any dietary restrictions?", reply)
}

func TestPromptNon2xxCarriesJSONDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "session expired"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.Prompt(context.Background(), "abc123", "hello")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
	assert.Equal(t, "session expired", reqErr.Detail)
}

func TestPromptNon2xxFallsBackToRawText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("kaboom"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.Prompt(context.Background(), "abc123", "hello")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "kaboom", reqErr.Detail)
}

func TestPromptResponseDecodesCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/prompt_response/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"restaurants": [
			{"name": "Casa Uno", "place_id": "p1", "why_is_a_good_choice_for_you": "close by"},
			{"name": "Casa Dos", "place_id": "p2", "why_is_a_good_choice_for_you": "well rated"}
		]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	candidates, err := client.PromptResponse(context.Background(), "abc123")
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, "Casa Uno", candidates[0].Name)
	assert.Equal(t, "p1", candidates[0].PlaceID)
	assert.Equal(t, "close by", candidates[0].WhyGoodChoice)
}

func TestPromptResponseMalformedBodyIsEmptyNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	candidates, err := client.PromptResponse(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestPromptResponseNon2xxIsRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail": "recommender offline"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.PromptResponse(context.Background(), "abc123")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.Status)
	assert.Equal(t, "recommender offline", reqErr.Detail)
}

func TestPromptTransportFailure(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1")
	_, err := client.Prompt(context.Background(), "abc123", "hello")
	require.Error(t, err)

	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr), "transport failures are plain errors, not RequestError")
}
