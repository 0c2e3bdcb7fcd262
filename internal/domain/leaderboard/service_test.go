package leaderboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-arena-go/internal/domain/eventbus"
	"voice-arena-go/internal/domain/history"
	"voice-arena-go/internal/platform/storage"
)

func newHistoryService(t *testing.T) *history.Service {
	t.Helper()
	db, err := storage.Open(t.TempDir() + "/leaderboard.db")
	require.NoError(t, err)
	return history.NewService(storage.NewHistoryRepository(db), nil)
}

func TestService_RecomputesOnHistoryChange(t *testing.T) {
	histories := newHistoryService(t)

	svc, err := NewService(context.Background(), histories, nil)
	require.NoError(t, err)
	defer svc.Close()

	assert.Empty(t, svc.Stats())

	id, err := histories.Add(context.Background(), history.TypePK, history.PKPayload{
		Left:  history.PKSide{Platform: "OpenAI", Voice: "alloy"},
		Right: history.PKSide{Platform: "Doubao", Voice: "v1"},
	})
	require.NoError(t, err)
	eventbus.WaitAsync()

	stats := svc.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].PKCount)
	assert.Zero(t, stats[0].TotalScore)

	winner := 0
	require.NoError(t, histories.Update(context.Background(), id, history.UpdateFields{Winner: &winner}))
	eventbus.WaitAsync()

	stats = svc.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "OpenAI-alloy", stats[0].ModelID)
	assert.Equal(t, 1, stats[0].TotalScore)
	assert.InDelta(t, 100.0, stats[0].WinRate, 0.001)
}

func TestService_StatsReturnsCopy(t *testing.T) {
	histories := newHistoryService(t)

	svc, err := NewService(context.Background(), histories, nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = histories.Add(context.Background(), history.TypePK, history.PKPayload{
		Left:  history.PKSide{Platform: "OpenAI", Voice: "alloy"},
		Right: history.PKSide{Platform: "Doubao", Voice: "v1"},
	})
	require.NoError(t, err)
	eventbus.WaitAsync()

	stats := svc.Stats()
	require.NotEmpty(t, stats)
	stats[0].ModelID = "mutated"

	assert.NotEqual(t, "mutated", svc.Stats()[0].ModelID)
}
