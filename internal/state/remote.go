// Package state holds the in-memory client state tree: the table and tab collections, their filter
// state and fetch lifecycles, composed under one root container.
package state

import (
	"context"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/upstream"
	"comanda-dashboard-backend/internal/worker"
)

// Remote is the remote boundary the stores read from and write to.
type Remote interface {
	ListCheckpads(ctx context.Context) ([]upstream.Checkpad, error)
	ListOrdersheets(ctx context.Context) ([]upstream.Ordersheet, int, error)
	ListAreas(ctx context.Context) ([]upstream.Area, error)
	CreateOrdersheet(ctx context.Context, body upstream.NewOrdersheet) (*upstream.Ordersheet, error)
	PatchOrdersheet(ctx context.Context, key string, patch upstream.OrdersheetPatch) (*upstream.Ordersheet, error)
	PatchCheckpad(ctx context.Context, id string, patch upstream.CheckpadPatch) (*upstream.Checkpad, error)
	ListComandas(ctx context.Context) ([]upstream.Comanda, int, error)
	CreateComanda(ctx context.Context, body upstream.Comanda) (*upstream.Comanda, error)
	PatchComanda(ctx context.Context, id string, patch upstream.ComandaPatch) (*upstream.Comanda, error)
}

// Dispatcher accepts detached tasks. The caller never learns their outcome.
type Dispatcher interface {
	Dispatch(task worker.Task)
}

// FilterReader is the root container's read interface over the shared filter state.
type FilterReader interface {
	TableFilter() model.TableFilter
}
