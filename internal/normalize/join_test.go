package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/upstream"
)

func TestTables_TabJoinFlipsStatus(t *testing.T) {
	table := upstream.Checkpad{ID: "1", Identifier: "5", Activity: "inactive"}

	before := Tables([]upstream.Checkpad{table}, nil)
	require.Len(t, before, 1)
	assert.Equal(t, model.StatusInactive, before[0].Status)

	sheets := []upstream.Ordersheet{
		{ID: "10", Subtotal: num(5000), Checkpad: &upstream.CheckpadRef{ID: "1", Identifier: "5"}},
	}
	after := Tables([]upstream.Checkpad{table}, sheets)
	require.Len(t, after, 1)
	assert.Equal(t, model.StatusOccupied, after[0].Status)
	assert.Equal(t, 1, after[0].OpenTabCount)
	assert.InDelta(t, 50.0, after[0].TotalValue, 1e-9)
}

func TestTables_ZeroTotalTabStillOccupies(t *testing.T) {
	tables := Tables(
		[]upstream.Checkpad{{ID: "1", Identifier: "5"}},
		[]upstream.Ordersheet{{ID: "11", Subtotal: num(0), CustomerName: "Ana", Checkpad: &upstream.CheckpadRef{ID: "1"}}},
	)
	require.Len(t, tables, 1)
	assert.Equal(t, model.StatusOccupied, tables[0].Status)
	assert.Equal(t, 1, tables[0].OpenTabCount)
	assert.Equal(t, 0.0, tables[0].TotalValue)
}

func TestTables_JoinByNumberWithoutID(t *testing.T) {
	tables := Tables(
		[]upstream.Checkpad{{ID: "3", Identifier: "8"}},
		[]upstream.Ordersheet{{ID: "12", Subtotal: num(30), Checkpad: &upstream.CheckpadRef{Identifier: "8"}}},
	)
	require.Len(t, tables, 1)
	assert.Equal(t, model.StatusOccupied, tables[0].Status)
	assert.Equal(t, 30.0, tables[0].TotalValue)
}

func TestTables_KnownTabIDsAreNotCountedTwice(t *testing.T) {
	tables := Tables(
		[]upstream.Checkpad{{ID: "1", Identifier: "1", OrderSheetIDs: []upstream.FlexID{"10"}}},
		[]upstream.Ordersheet{{ID: "10", Checkpad: &upstream.CheckpadRef{ID: "1"}}},
	)
	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].OpenTabCount)
}

func TestTables_MergesDuplicateNumbers(t *testing.T) {
	checkpads := []upstream.Checkpad{
		{ID: "1", Identifier: "4", Activity: "inactive", OrderSheetIDs: []upstream.FlexID{"a"}, HasOrder: 1, Subtotal: num(20)},
		{ID: "2", Identifier: "4", Activity: "empty", OrderSheetIDs: []upstream.FlexID{"b", "c"}, Subtotal: num(10)},
		{ID: "3", Identifier: "9", Activity: "empty"},
	}

	tables := Tables(checkpads, nil)
	require.Len(t, tables, 2)
	assert.Equal(t, "4", tables[0].Number)
	assert.Equal(t, model.StatusOccupied, tables[0].Status)
	assert.Equal(t, 3, tables[0].OpenTabCount)
	assert.Equal(t, 30.0, tables[0].TotalValue)
	assert.Equal(t, "9", tables[1].Number)
}

func TestMerge_StatusPriority(t *testing.T) {
	testCases := []struct {
		a, b, expected model.TableStatus
	}{
		{model.StatusAvailable, model.StatusOccupied, model.StatusOccupied},
		{model.StatusOccupied, model.StatusAvailable, model.StatusOccupied},
		{model.StatusReserved, model.StatusInactive, model.StatusReserved},
		{model.StatusInactive, model.StatusAvailable, model.StatusInactive},
		{model.StatusAvailable, model.StatusAvailable, model.StatusAvailable},
	}

	for _, tc := range testCases {
		t.Run(string(tc.a)+"+"+string(tc.b), func(t *testing.T) {
			merged := Merge(
				model.Table{Number: "1", Status: tc.a, OpenTabCount: 1},
				model.Table{Number: "1", Status: tc.b, OpenTabCount: 2},
			)
			assert.Equal(t, tc.expected, merged.Status)
			assert.Equal(t, 3, merged.OpenTabCount)
		})
	}
}

func TestTables_OpenTabsImplyOccupied(t *testing.T) {
	checkpads := []upstream.Checkpad{
		{ID: "1", Identifier: "1", Activity: "inactive"},
		{ID: "2", Identifier: "2", Activity: "empty"},
		{ID: "3", Identifier: "2", Activity: "inactive"},
		{ID: "4", Identifier: "4"},
	}
	sheets := []upstream.Ordersheet{
		{ID: "20", Checkpad: &upstream.CheckpadRef{ID: "1"}},
		{ID: "21", Checkpad: &upstream.CheckpadRef{ID: "3"}},
	}

	for _, tbl := range Tables(checkpads, sheets) {
		if tbl.OpenTabCount > 0 {
			assert.Equal(t, model.StatusOccupied, tbl.Status, "table %s", tbl.Number)
		}
	}
}
