package state

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/normalize"
	"comanda-dashboard-backend/internal/upstream"
)

// statusActivity maps a canonical status back onto the server's activity marker.
var statusActivity = map[model.TableStatus]string{
	model.StatusAvailable: "empty",
	model.StatusOccupied:  "active",
	model.StatusReserved:  "inactive",
	model.StatusInactive:  "inactive",
}

// TableStore owns the raw table and tab records behind the table view, the table filter state and
// the fetch lifecycle. Canonical tables are derived from the raw records on read.
type TableStore struct {
	client Remote
	logger *zap.Logger

	mu        sync.RWMutex
	checkpads []upstream.Checkpad
	sheets    []upstream.Ordersheet
	derived   []model.Table
	areas     []upstream.Area
	filter    model.TableFilter
	lifecycle model.Lifecycle
}

// NewTableStore creates an empty store in the idle phase.
func NewTableStore(client Remote, logger *zap.Logger) *TableStore {
	return &TableStore{
		client:    client,
		logger:    logger,
		filter:    model.DefaultTableFilter(),
		lifecycle: model.Lifecycle{Phase: model.PhaseIdle},
	}
}

// FetchAll replaces the collection with a fresh read of both resources. It never returns an error:
// a failed table read leaves an empty collection and an errored lifecycle. A failed tab read only
// loses the tab join. Concurrent calls are not coalesced; the last one to finish wins.
func (s *TableStore) FetchAll(ctx context.Context) model.Lifecycle {
	s.setLifecycle(model.Lifecycle{Phase: model.PhaseLoading})

	checkpads, err := s.client.ListCheckpads(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch tables", zap.String("resource", "checkpads"), zap.Error(err))
		return s.replace(nil, nil, model.Lifecycle{Phase: model.PhaseErrored, Error: "could not load tables"})
	}

	sheets, _, err := s.client.ListOrdersheets(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch tabs for the table join", zap.String("resource", "ordersheets"), zap.Error(err))
		sheets = nil
	}

	return s.replace(checkpads, sheets, model.Lifecycle{Phase: model.PhaseReady})
}

func (s *TableStore) replace(checkpads []upstream.Checkpad, sheets []upstream.Ordersheet, lc model.Lifecycle) model.Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpads = checkpads
	s.sheets = sheets
	s.derived = nil
	s.lifecycle = lc
	return lc
}

func (s *TableStore) setLifecycle(lc model.Lifecycle) {
	s.mu.Lock()
	s.lifecycle = lc
	s.mu.Unlock()
}

// FetchAreas refreshes the area definitions. Areas are display metadata, so a failure keeps the
// previous definitions.
func (s *TableStore) FetchAreas(ctx context.Context) error {
	areas, err := s.client.ListAreas(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch areas", zap.String("resource", "areas"), zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.areas = areas
	s.mu.Unlock()
	return nil
}

// UpdateOne writes a partial update of table id to the remote boundary and splices the result into
// the collection.
func (s *TableStore) UpdateOne(ctx context.Context, id int64, patch model.TablePatch) (model.Table, error) {
	body := upstream.CheckpadPatch{
		AuthorName: patch.Attendant,
		IdleTime:   patch.IdleMinutes,
	}
	if patch.Status != nil {
		activity, ok := statusActivity[*patch.Status]
		if !ok {
			return model.Table{}, fmt.Errorf("unknown table status %q", *patch.Status)
		}
		body.Activity = &activity
	}
	if patch.TotalValue != nil {
		minor := normalize.ToMinorUnits(*patch.TotalValue)
		body.Subtotal = &minor
	}

	updated, err := s.client.PatchCheckpad(ctx, strconv.FormatInt(id, 10), body)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to update table %d: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.checkpads {
		if cpID, ok := s.checkpads[i].ID.Int64(); ok && cpID == id {
			s.checkpads[i] = *updated
			s.derived = nil
			break
		}
	}
	s.mu.Unlock()

	for _, t := range s.Tables() {
		if t.ID == id {
			return t, nil
		}
	}
	return normalize.Table(*updated, nil), nil
}

// Tables returns the canonical table collection.
func (s *TableStore) Tables() []model.Table {
	s.mu.RLock()
	if s.derived != nil || s.checkpads == nil {
		defer s.mu.RUnlock()
		return s.derived
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.derived == nil && s.checkpads != nil {
		s.derived = normalize.Tables(s.checkpads, s.sheets)
	}
	return s.derived
}

// Areas returns the area definitions of the last successful areas fetch.
func (s *TableStore) Areas() []upstream.Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.areas
}

// Lifecycle returns the state of the last fetch.
func (s *TableStore) Lifecycle() model.Lifecycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lifecycle
}

// Filter returns the current table filter state.
func (s *TableStore) Filter() model.TableFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetStatusFilter replaces the status dimension.
func (s *TableStore) SetStatusFilter(status string) error {
	if status != model.All && !model.TableStatus(status).Valid() {
		return fmt.Errorf("unknown table status %q", status)
	}
	s.mu.Lock()
	s.filter.Status = status
	s.mu.Unlock()
	return nil
}

// SetAttendantFilter replaces the attendant dimension.
func (s *TableStore) SetAttendantFilter(attendant string) {
	s.mu.Lock()
	s.filter.Attendant = attendant
	s.mu.Unlock()
}

// SetAreaFilter replaces the area dimension.
func (s *TableStore) SetAreaFilter(area string) {
	s.mu.Lock()
	s.filter.Area = area
	s.mu.Unlock()
}

// SetExtendedStateFilter replaces the extended-state dimension.
func (s *TableStore) SetExtendedStateFilter(state model.ExtendedState) {
	s.mu.Lock()
	s.filter.ExtendedState = state
	s.mu.Unlock()
}

// SetQuery replaces the free-text query.
func (s *TableStore) SetQuery(query string) {
	s.mu.Lock()
	s.filter.Query = query
	s.mu.Unlock()
}
