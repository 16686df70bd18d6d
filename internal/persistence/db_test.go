package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hollyoak/plantshop/internal/shop"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadSessionEmpty(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	_, err := db.LoadSession()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	state := &SessionState{
		ID:              "session-1",
		Seed:            42,
		PlayerHardiness: 0.7,
		Cash:            38.5,
		Visits:          12,
		Draws:           5,
		Stock: map[string]int{
			"fern":  1,
			"hosta": 0,
		},
		LogLines: []string{"sold Boston Fern for $14", "missed a sale on Hosta at $15"},
	}
	require.NoError(t, db.SaveSession(state))

	loaded, err := db.LoadSession()
	require.NoError(t, err)
	require.Equal(t, state.ID, loaded.ID)
	require.Equal(t, state.Seed, loaded.Seed)
	require.Equal(t, state.PlayerHardiness, loaded.PlayerHardiness)
	require.Equal(t, state.Cash, loaded.Cash)
	require.Equal(t, state.Visits, loaded.Visits)
	require.Equal(t, state.Draws, loaded.Draws)
	require.Equal(t, state.Stock, loaded.Stock)
	require.Equal(t, state.LogLines, loaded.LogLines)
}

func TestSaveSessionReplaces(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	state := &SessionState{
		ID:       "session-1",
		Seed:     1,
		Cash:     10,
		Stock:    map[string]int{"fern": 2},
		LogLines: []string{"a", "b", "c"},
	}
	require.NoError(t, db.SaveSession(state))

	state.Cash = 24
	state.Stock["fern"] = 1
	state.LogLines = []string{"b", "c", "d"}
	require.NoError(t, db.SaveSession(state))

	loaded, err := db.LoadSession()
	require.NoError(t, err)
	require.Equal(t, 24.0, loaded.Cash)
	require.Equal(t, 1, loaded.Stock["fern"])
	require.Equal(t, []string{"b", "c", "d"}, loaded.LogLines)
}

func TestSaleEvents(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []shop.SaleEvent{
		{ID: "ev-1", ItemID: "fern", Price: 14, Success: true, FitScore: 0.9, At: base},
		{ID: "ev-2", ItemID: "hosta", Price: 15, Success: false, FitScore: 0.4, At: base.Add(time.Minute)},
		{ID: "ev-3", ItemID: "fern", Price: 12, Success: true, FitScore: 0.8, At: base.Add(2 * time.Minute)},
	}
	for _, ev := range events {
		require.NoError(t, db.SaveSaleEvent("session-1", ev))
	}

	got, err := db.RecentSales("session-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	require.Equal(t, "ev-3", got[0].ID)
	require.Equal(t, "ev-2", got[1].ID)
	require.True(t, got[0].Success)
	require.False(t, got[1].Success)
	require.Equal(t, 0.8, got[0].FitScore)

	// Other sessions see nothing.
	other, err := db.RecentSales("session-2", 10)
	require.NoError(t, err)
	require.Empty(t, other)
}
