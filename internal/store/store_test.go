package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gridchase/assets"
	"github.com/robalobadob/gridchase/internal/database"
	"github.com/robalobadob/gridchase/internal/store"
)

// implementations runs each subtest against every Store.
func implementations(t *testing.T, fn func(t *testing.T, st store.Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, store.NewMemoryStore()) })
	t.Run("sqlite", func(t *testing.T) {
		db, err := database.OpenMigrated(database.MemoryDSN, assets.Migrations())
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		fn(t, store.NewSQLStore(db))
	})
}

var base = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func run(id, owner string, mode store.Mode, score, moves int, finishedAfter time.Duration) store.Run {
	return store.Run{
		ID:         id,
		Owner:      owner,
		Name:       owner,
		Mode:       mode,
		Date:       "2026-05-04",
		Score:      score,
		Captures:   score / 100,
		Moves:      moves,
		StartedAt:  base,
		FinishedAt: base.Add(finishedAfter),
	}
}

func TestTopRunsOrdering(t *testing.T) {
	implementations(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		require.NoError(t, st.SaveRun(ctx, run("a", "u1", store.ModeClassic, 300, 40, time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("b", "u2", store.ModeClassic, 500, 60, 2*time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("c", "u3", store.ModeClassic, 300, 20, 3*time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("d", "u4", store.ModeClassic, 300, 20, 30*time.Second)))
		require.NoError(t, st.SaveRun(ctx, run("e", "u5", store.ModeDaily, 900, 10, time.Minute)))

		top, err := st.TopRuns(ctx, store.ModeClassic, "", 10)
		require.NoError(t, err)
		ids := make([]string, 0, len(top))
		for _, r := range top {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"b", "d", "c", "a"}, ids)

		top, err = st.TopRuns(ctx, store.ModeClassic, "", 2)
		require.NoError(t, err)
		assert.Len(t, top, 2)

		top, err = st.TopRuns(ctx, store.ModeClassic, "1999-01-01", 10)
		require.NoError(t, err)
		assert.Empty(t, top)

		top, err = st.TopRuns(ctx, store.ModeDaily, "2026-05-04", 10)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, 900, top[0].Score)
		assert.True(t, top[0].FinishedAt.Equal(base.Add(time.Minute)))
	})
}

func TestOwnerHistoryAndStats(t *testing.T) {
	implementations(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		require.NoError(t, st.SaveRun(ctx, run("a", "u1", store.ModeClassic, 300, 40, time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("b", "u1", store.ModeClassic, 700, 60, 3*time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("c", "u2", store.ModeClassic, 100, 5, 2*time.Minute)))

		mine, err := st.RunsByOwner(ctx, "u1", 0)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, "b", mine[0].ID, "newest first")

		stats, err := st.Stats(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, store.Stats{GamesPlayed: 2, BestScore: 700, TotalScore: 1000, TotalCaptures: 10}, stats)

		empty, err := st.Stats(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, store.Stats{}, empty)
	})
}

func TestDailyOncePerOwner(t *testing.T) {
	implementations(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		played, err := st.PlayedDaily(ctx, "u1", "2026-05-04")
		require.NoError(t, err)
		assert.False(t, played)

		require.NoError(t, st.SaveRun(ctx, run("a", "u1", store.ModeDaily, 300, 40, time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("b", "u1", store.ModeDaily, 900, 40, 2*time.Minute)))

		played, err = st.PlayedDaily(ctx, "u1", "2026-05-04")
		require.NoError(t, err)
		assert.True(t, played)

		top, err := st.TopRuns(ctx, store.ModeDaily, "2026-05-04", 10)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "a", top[0].ID)
	})
}

func TestClaimAnon(t *testing.T) {
	implementations(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		require.NoError(t, st.SaveRun(ctx, run("a", "anon1", store.ModeClassic, 300, 40, time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("b", "anon1", store.ModeDaily, 200, 40, time.Minute)))
		require.NoError(t, st.SaveRun(ctx, run("c", "user1", store.ModeDaily, 100, 40, time.Minute)))

		require.NoError(t, st.ClaimAnon(ctx, "anon1", "user1", "alice"))

		mine, err := st.RunsByOwner(ctx, "user1", 10)
		require.NoError(t, err)
		ids := map[string]string{}
		for _, r := range mine {
			ids[r.ID] = r.Name
		}
		assert.Equal(t, "alice", ids["a"])
		assert.Contains(t, ids, "c")
		assert.NotContains(t, ids, "b", "user's own daily run is kept")

		require.NoError(t, st.ClaimAnon(ctx, "", "user1", "alice"))
	})
}

func TestParseMode(t *testing.T) {
	m, ok := store.ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, store.ModeClassic, m)
	m, ok = store.ParseMode("daily")
	assert.True(t, ok)
	assert.Equal(t, store.ModeDaily, m)
	_, ok = store.ParseMode("hard")
	assert.False(t, ok)
}
