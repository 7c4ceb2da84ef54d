package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/filter"
	"comanda-dashboard-backend/internal/model"
)

// Root composes the two stores. The tab store reads the shared area and attendant dimensions
// through the root, never from the table store directly.
type Root struct {
	Tables *TableStore
	Tabs   *TabStore
}

// NewRoot wires both stores to one remote boundary.
func NewRoot(client Remote, dispatcher Dispatcher, opts TabOptions, logger *zap.Logger) *Root {
	r := &Root{Tables: NewTableStore(client, logger.Named("tables"))}
	r.Tabs = NewTabStore(client, dispatcher, r, opts, logger.Named("tabs"))
	return r
}

// TableFilter is the read interface over the shared filter state.
func (r *Root) TableFilter() model.TableFilter {
	return r.Tables.Filter()
}

// SetAreaFilter sets the area dimension shared by both views.
func (r *Root) SetAreaFilter(area string) {
	r.Tables.SetAreaFilter(area)
}

// SetAttendantFilter sets the attendant dimension shared by both views.
func (r *Root) SetAttendantFilter(attendant string) {
	r.Tables.SetAttendantFilter(attendant)
}

// FilteredTables is the table view.
func (r *Root) FilteredTables() []model.Table {
	return filter.Tables(r.Tables.Tables(), r.Tables.Filter())
}

// FilteredTabs is the tab view.
func (r *Root) FilteredTabs() []model.Tab {
	return filter.Tabs(r.Tabs.Tabs(), r.Tabs.View())
}

// Options are the derived selector lists used to populate filter dropdowns and table selectors.
type Options struct {
	Areas      []string            `json:"areas"`
	Attendants []string            `json:"attendants"`
	FreeTables []model.TableOption `json:"freeTables"`
	AllTables  []model.TableOption `json:"allTables"`
}

// Options derives the selector lists from the current table collection.
func (r *Root) Options() Options {
	tables := r.Tables.Tables()
	return Options{
		Areas:      filter.Areas(tables),
		Attendants: filter.Attendants(tables),
		FreeTables: filter.FreeTables(tables),
		AllTables:  filter.AllTables(tables),
	}
}

// Refresh runs both fetches and the areas fetch concurrently and waits for all three.
func (r *Root) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		r.Tables.FetchAll(ctx)
	}()
	go func() {
		defer wg.Done()
		r.Tabs.FetchAll(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = r.Tables.FetchAreas(ctx)
	}()
	wg.Wait()
}
