package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gridchase/internal/store"
)

func TestRecorderSavesRun(t *testing.T) {
	runs := store.NewMemoryStore()
	at := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	Recorder(runs)(Result{
		SessionID:  "s1",
		Owner:      "u1",
		Name:       "alice",
		Mode:       store.ModeDaily,
		Date:       "2026-05-04",
		Score:      400,
		Captures:   4,
		Moves:      31,
		StartedAt:  at,
		FinishedAt: at.Add(time.Minute),
	})

	top, err := runs.TopRuns(context.Background(), store.ModeDaily, "2026-05-04", 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "s1", top[0].ID)
	assert.Equal(t, "alice", top[0].Name)
	assert.Equal(t, 400, top[0].Score)

	played, err := runs.PlayedDaily(context.Background(), "u1", "2026-05-04")
	require.NoError(t, err)
	assert.True(t, played)
}
