package internal

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comanda-dashboard-backend/config"
	"comanda-dashboard-backend/internal/db"
	"comanda-dashboard-backend/internal/devserver"
	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/poller"
	"comanda-dashboard-backend/internal/state"
	"comanda-dashboard-backend/internal/store"
	"comanda-dashboard-backend/internal/upstream"
	"comanda-dashboard-backend/internal/worker"
	"comanda-dashboard-backend/internal/workflow"
)

func findTable(tables []model.Table, number string) (model.Table, bool) {
	for _, t := range tables {
		if t.Number == number {
			return t, true
		}
	}
	return model.Table{}, false
}

// TestTabLifecycle runs the daemon against the seeded development server: a tab is opened on a free
// table through the creation workflow, the detached occupancy patch lands, and the next refresh
// shows the table occupied while the zero-total tab stays out of the tab view.
func TestTabLifecycle(t *testing.T) {
	// --- Test Setup ---
	gormDB, err := db.Init("file:"+uuid.NewString()+"?mode=memory&cache=shared", zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	docs := store.NewGormStore(gormDB)
	require.NoError(t, devserver.Seed(context.Background(), docs))
	server := httptest.NewServer(devserver.New(docs, zap.NewNop()).Router())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool := worker.NewPool(2, 5*time.Second, zap.NewNop())
	pool.Start(ctx)

	client := upstream.New(config.UpstreamConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, zap.NewNop())
	root := state.NewRoot(client, pool, state.TabOptions{}, zap.NewNop())
	refresher := poller.NewService(config.PollerConfig{Enabled: true, Interval: time.Hour}, root, nil, zap.NewNop())

	t.Run("Seeded state", func(t *testing.T) {
		refresher.RunOnce(ctx)

		tables := root.Tables.Tables()
		require.Len(t, tables, 8)
		one, _ := findTable(tables, "1")
		assert.Equal(t, model.StatusOccupied, one.Status)
		assert.InDelta(t, 84.5, one.TotalValue, 1e-9)
		five, _ := findTable(tables, "5")
		assert.Equal(t, model.StatusInactive, five.Status)

		tabs := root.Tabs.Tabs()
		require.Len(t, tabs, 1)
		assert.Equal(t, "Ana", tabs[0].ID)
		assert.Len(t, root.Tables.Areas(), 2)
	})

	t.Run("Open a tab on table 3", func(t *testing.T) {
		wf := workflow.New(root.Tables, root.Tabs, "3", zap.NewNop())
		require.NoError(t, wf.SubmitCustomer(workflow.CustomerInfo{CustomerName: "Rui", CustomerCount: 3, Attendant: "Marta"}))

		tab, err := wf.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Rui", tab.ID)
		assert.Equal(t, workflow.StepDone, wf.Snapshot().Step)
		assert.Equal(t, "3", wf.Snapshot().TableNumber)

		require.Eventually(t, func() bool {
			rec, err := docs.Get(ctx, "checkpads", "3")
			return err == nil && rec["hasOrder"] == float64(1) && rec["authorName"] == "Marta"
		}, 2*time.Second, 20*time.Millisecond, "detached occupancy patch never landed")
	})

	t.Run("Refresh reflects the new tab", func(t *testing.T) {
		refresher.RunOnce(ctx)

		three, ok := findTable(root.Tables.Tables(), "3")
		require.True(t, ok)
		assert.Equal(t, model.StatusOccupied, three.Status)
		assert.Equal(t, 1, three.OpenTabCount)
		assert.Equal(t, "Marta", three.Attendant)

		for _, tab := range root.Tabs.Tabs() {
			assert.NotEqual(t, "Rui", tab.ID, "zero-total tabs stay out of the tab view")
		}
	})

	t.Run("A second tab on the same table is rejected", func(t *testing.T) {
		wf := workflow.New(root.Tables, root.Tabs, "3", zap.NewNop())
		require.NoError(t, wf.SubmitCustomer(workflow.CustomerInfo{Attendant: "Marta"}))

		_, err := wf.Submit(ctx)
		var rejection *workflow.RejectionError
		assert.ErrorAs(t, err, &rejection)
	})
}
