package persistence_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Koshroy/voting-abm/internal/config"
	"github.com/Koshroy/voting-abm/internal/engine"
	"github.com/Koshroy/voting-abm/internal/entity"
	"github.com/Koshroy/voting-abm/internal/persistence"
)

func openDB(t *testing.T) *persistence.DB {
	t.Helper()

	db, err := persistence.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func runResult(t *testing.T, seed int64) (config.Config, engine.Result) {
	t.Helper()

	cfg := config.Default()
	cfg.Population = 30
	cfg.Density = 3
	cfg.Rounds = 2
	cfg.ExtremistProb = 0.3
	cfg.TopK = 5
	cfg.Seed = seed

	res, err := engine.Execute(t.Context(), cfg, entity.NewAllocator(1), nil)
	require.NoError(t, err)
	return cfg, res
}

func TestDB_SaveAndLoadRun(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	cfg, res := runResult(t, 77)

	id, err := db.SaveRun(cfg, res)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := db.LoadRun(id)
	require.NoError(t, err)

	require.Equal(t, id, stored.Record.ID)
	require.Equal(t, cfg.Population, stored.Config.Population)
	require.Equal(t, cfg.Policy, stored.Config.Policy)
	require.Equal(t, res.Report.Seed, stored.Report.Seed)
	require.Equal(t, res.Report.Rounds, stored.Report.Rounds)
	require.Equal(t, res.Report.Stats, stored.Report.Stats)
	require.Equal(t, res.Report.TopPosts, stored.Report.TopPosts)
	require.ElementsMatch(t, res.Report.Extremists, stored.Report.Extremists)
	require.WithinDuration(t, res.Started, stored.Record.StartedAt(), time.Millisecond)
}

func TestDB_LoadRunNotFound(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	_, err := db.LoadRun("missing")
	require.ErrorIs(t, err, persistence.ErrRunNotFound)
}

func TestDB_RecentRuns(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	for _, seed := range []int64{1, 2, 3} {
		cfg, res := runResult(t, seed)
		res.Started = time.UnixMilli(1_700_000_000_000 + seed*1000)
		_, err := db.SaveRun(cfg, res)
		require.NoError(t, err)
	}

	runs, err := db.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, int64(3), runs[0].Seed)
	require.Equal(t, int64(2), runs[1].Seed)
}

func TestDB_Meta(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	require.NoError(t, db.SaveMeta("last_seed", "42"))
	require.NoError(t, db.SaveMeta("last_seed", "43"))

	v, err := db.GetMeta("last_seed")
	require.NoError(t, err)
	require.Equal(t, "43", v)

	_, err = db.GetMeta("absent")
	require.Error(t, err)
}
