package state

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/model"
)

func TestTableStore_FetchAll_TabJoin(t *testing.T) {
	remote, client := newFakeRemote(t)
	store := NewTableStore(client, zap.NewNop())
	ctx := context.Background()

	remote.json("GET /checkpads", http.StatusOK, `[{"id":1,"identifier":"5","hasOrder":0,"activity":"inactive","model":"Mesa"}]`)
	remote.json("GET /ordersheets", http.StatusOK, `[]`)

	lc := store.FetchAll(ctx)
	assert.Equal(t, model.PhaseReady, lc.Phase)
	tables := store.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, model.StatusInactive, tables[0].Status)

	remote.json("GET /ordersheets", http.StatusOK, `[{"id":10,"subtotal":5000,"checkpad":{"id":1,"identifier":"5"}}]`)
	store.FetchAll(ctx)
	tables = store.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, model.StatusOccupied, tables[0].Status)
	assert.InDelta(t, 50.0, tables[0].TotalValue, 1e-9)
	assert.Equal(t, "table", tables[0].Area)
}

func TestTableStore_FetchAll_MistypedFieldKeepsCollection(t *testing.T) {
	remote, client := newFakeRemote(t)
	store := NewTableStore(client, zap.NewNop())

	remote.json("GET /checkpads", http.StatusOK, `[{"id":1,"identifier":"1"},{"id":2,"identifier":2,"authorName":7},{"id":3,"identifier":"3"},"junk"]`)
	remote.json("GET /ordersheets", http.StatusOK, `[{"id":10,"subtotal":5000,"customerName":99,"checkpad":{"identifier":2}}]`)

	lc := store.FetchAll(context.Background())
	assert.Equal(t, model.PhaseReady, lc.Phase)

	tables := store.Tables()
	require.Len(t, tables, 3)
	numbers := []string{tables[0].Number, tables[1].Number, tables[2].Number}
	assert.Equal(t, []string{"1", "2", "3"}, numbers)
	assert.Equal(t, model.StatusOccupied, tables[1].Status)
	assert.Equal(t, 1, tables[1].OpenTabCount)
	assert.InDelta(t, 50.0, tables[1].TotalValue, 1e-9)
	assert.Equal(t, "7", tables[1].Attendant)
}

func TestTableStore_FetchAll_SoftFails(t *testing.T) {
	testCases := []struct {
		name          string
		setup         func(f *fakeRemote)
		expectedPhase model.Phase
		expectedCount int
	}{
		{
			name: "Tables unreachable",
			setup: func(f *fakeRemote) {
				f.fail("GET /checkpads")
				f.json("GET /ordersheets", http.StatusOK, `[]`)
			},
			expectedPhase: model.PhaseErrored,
			expectedCount: 0,
		},
		{
			name: "Unparseable tables",
			setup: func(f *fakeRemote) {
				f.json("GET /checkpads", http.StatusOK, `"not a collection"`)
			},
			expectedPhase: model.PhaseErrored,
			expectedCount: 0,
		},
		{
			name: "Tabs unreachable only lose the join",
			setup: func(f *fakeRemote) {
				f.json("GET /checkpads", http.StatusOK, `[{"id":1,"identifier":"1"},{"id":2,"identifier":"2"}]`)
				f.fail("GET /ordersheets")
			},
			expectedPhase: model.PhaseReady,
			expectedCount: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			remote, client := newFakeRemote(t)
			tc.setup(remote)
			store := NewTableStore(client, zap.NewNop())

			lc := store.FetchAll(context.Background())
			assert.Equal(t, tc.expectedPhase, lc.Phase)
			assert.Equal(t, tc.expectedPhase, store.Lifecycle().Phase)
			assert.Len(t, store.Tables(), tc.expectedCount)
		})
	}
}

func TestTableStore_FetchAll_ErrorClearsPreviousCollection(t *testing.T) {
	remote, client := newFakeRemote(t)
	store := NewTableStore(client, zap.NewNop())

	remote.json("GET /checkpads", http.StatusOK, `[{"id":1,"identifier":"1"}]`)
	remote.json("GET /ordersheets", http.StatusOK, `[]`)
	store.FetchAll(context.Background())
	require.Len(t, store.Tables(), 1)

	remote.fail("GET /checkpads")
	lc := store.FetchAll(context.Background())
	assert.Equal(t, model.PhaseErrored, lc.Phase)
	assert.NotEmpty(t, lc.Error)
	assert.Empty(t, store.Tables())
}

func TestTableStore_UpdateOne(t *testing.T) {
	remote, client := newFakeRemote(t)
	store := NewTableStore(client, zap.NewNop())

	remote.json("GET /checkpads", http.StatusOK, `[{"id":1,"identifier":"1","activity":"empty"},{"id":2,"identifier":"2","activity":"empty"}]`)
	remote.json("GET /ordersheets", http.StatusOK, `[]`)
	store.FetchAll(context.Background())

	remote.json("PATCH /checkpads/2", http.StatusOK, `{"id":2,"identifier":"2","activity":"inactive","authorName":"Bia","subtotal":1250}`)

	status := model.StatusReserved
	attendant := "Bia"
	total := 12.5
	updated, err := store.UpdateOne(context.Background(), 2, model.TablePatch{Status: &status, Attendant: &attendant, TotalValue: &total})
	require.NoError(t, err)
	assert.Equal(t, "Bia", updated.Attendant)
	assert.Equal(t, model.StatusInactive, updated.Status)
	assert.InDelta(t, 12.5, updated.TotalValue, 1e-9)

	calls := remote.callsTo("PATCH /checkpads/2")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"activity": "inactive", "authorName": "Bia", "subtotal": float64(1250)}, calls[0].Body)

	tables := store.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "Bia", tables[1].Attendant)
	assert.Equal(t, "", tables[0].Attendant)
}

func TestTableStore_UpdateOne_StatusMapping(t *testing.T) {
	testCases := []struct {
		status   model.TableStatus
		activity string
	}{
		{model.StatusAvailable, "empty"},
		{model.StatusOccupied, "active"},
		{model.StatusReserved, "inactive"},
		{model.StatusInactive, "inactive"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			remote, client := newFakeRemote(t)
			remote.json("PATCH /checkpads/7", http.StatusOK, `{"id":7,"identifier":"7"}`)
			store := NewTableStore(client, zap.NewNop())

			status := tc.status
			_, err := store.UpdateOne(context.Background(), 7, model.TablePatch{Status: &status})
			require.NoError(t, err)
			calls := remote.callsTo("PATCH /checkpads/7")
			require.Len(t, calls, 1)
			assert.Equal(t, tc.activity, calls[0].Body["activity"])
		})
	}
}

func TestTableStore_UpdateOne_Failure(t *testing.T) {
	remote, client := newFakeRemote(t)
	remote.fail("PATCH /checkpads/3")
	store := NewTableStore(client, zap.NewNop())

	idle := 4
	_, err := store.UpdateOne(context.Background(), 3, model.TablePatch{IdleMinutes: &idle})
	assert.Error(t, err)

	bogus := model.TableStatus("closed")
	_, err = store.UpdateOne(context.Background(), 3, model.TablePatch{Status: &bogus})
	assert.Error(t, err)
	assert.Len(t, remote.callsTo("PATCH /checkpads/3"), 1)
}

func TestTableStore_Filters(t *testing.T) {
	store := NewTableStore(nil, zap.NewNop())
	assert.Equal(t, model.DefaultTableFilter(), store.Filter())

	require.NoError(t, store.SetStatusFilter("occupied"))
	assert.Error(t, store.SetStatusFilter("closed"))
	store.SetAreaFilter("kiosk")
	store.SetAttendantFilter("Bia")
	store.SetExtendedStateFilter(model.ExtendedIdle)
	store.SetQuery("ana")

	assert.Equal(t, model.TableFilter{
		Status:        "occupied",
		Area:          "kiosk",
		Attendant:     "Bia",
		ExtendedState: model.ExtendedIdle,
		Query:         "ana",
	}, store.Filter())
}

func TestTableStore_FetchAreas(t *testing.T) {
	remote, client := newFakeRemote(t)
	store := NewTableStore(client, zap.NewNop())

	remote.json("GET /areas", http.StatusOK, `[{"id":1,"name":"Salão","maxIdleTime":20,"maxIdleTimeEnabled":1,"checkpadModels":[{"id":1,"name":"Mesa"}]}]`)
	require.NoError(t, store.FetchAreas(context.Background()))
	require.Len(t, store.Areas(), 1)

	remote.fail("GET /areas")
	assert.Error(t, store.FetchAreas(context.Background()))
	assert.Len(t, store.Areas(), 1)
}
