package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealseek/models"
)

func TestMemoryStoreGetReturnsIsolatedCopy(t *testing.T) {
	store := NewMemorySessionStore()
	require.NoError(t, store.Save(context.Background(), &models.DiscoverySession{
		SessionID: "sess-1",
		Phase:     models.PhaseChatting,
		FlowSteps: []models.FlowStep{
			{ID: models.StepUserQuery, Status: models.StepCompleted},
		},
	}))

	first, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)

	// Mutations on a returned snapshot must not leak into the store
	// without an explicit Save.
	first.Phase = models.PhaseError
	first.FlowSteps[0].Status = models.StepError

	second, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseChatting, second.Phase)
	assert.Equal(t, models.StepCompleted, second.FlowSteps[0].Status)
}

func TestMemoryStoreSaveDetachesFromCaller(t *testing.T) {
	store := NewMemorySessionStore()
	session := &models.DiscoverySession{
		SessionID:   "sess-1",
		Phase:       models.PhaseChatting,
		ChatHistory: []models.ChatMessage{{Role: models.RoleUser, Content: "tapas"}},
	}
	require.NoError(t, store.Save(context.Background(), session))

	session.ChatHistory[0].Content = "changed after save"

	stored, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "tapas", stored.ChatHistory[0].Content)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemorySessionStore()
	require.NoError(t, store.Save(context.Background(), &models.DiscoverySession{SessionID: "sess-1"}))

	require.NoError(t, store.Delete(context.Background(), "sess-1"))
	require.NoError(t, store.Delete(context.Background(), "sess-1"))

	_, err := store.Get(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
