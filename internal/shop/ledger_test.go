package shop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollyoak/plantshop/internal/catalog"
)

func TestLedgerConsume(t *testing.T) {
	t.Parallel()

	items := []catalog.Item{{ID: "fern"}, {ID: "hosta"}}
	ledger := NewLedger(items, 2)

	require.Equal(t, 2, ledger.StockOf("fern"))

	require.True(t, ledger.Consume("fern"))
	require.Equal(t, 1, ledger.StockOf("fern"))
	require.True(t, ledger.Consume("fern"))
	require.Equal(t, 0, ledger.StockOf("fern"))

	// Depleted: no mutation, reports false.
	require.False(t, ledger.Consume("fern"))
	require.Equal(t, 0, ledger.StockOf("fern"))

	// The other item is untouched.
	require.Equal(t, 2, ledger.StockOf("hosta"))
}

func TestLedgerUnknownID(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]catalog.Item{{ID: "fern"}}, 1)

	require.Equal(t, 0, ledger.StockOf("no-such-item"))
	require.False(t, ledger.Consume("no-such-item"))
}

func TestLedgerDefaultStock(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]catalog.Item{{ID: "fern"}}, 0)
	require.Equal(t, DefaultStartingStock, ledger.StockOf("fern"))
}

func TestLedgerSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]catalog.Item{{ID: "fern"}}, 3)
	snap := ledger.Snapshot()
	snap["fern"] = 99

	require.Equal(t, 3, ledger.StockOf("fern"))
}

func TestLedgerRestore(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]catalog.Item{{ID: "fern"}}, 1)
	ledger.Restore("fern", 5)
	require.Equal(t, 5, ledger.StockOf("fern"))

	ledger.Restore("fern", -2)
	require.Equal(t, 0, ledger.StockOf("fern"))
}
