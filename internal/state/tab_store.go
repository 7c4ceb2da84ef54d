package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/normalize"
	"comanda-dashboard-backend/internal/parse"
	"comanda-dashboard-backend/internal/upstream"
	"comanda-dashboard-backend/internal/worker"
)

// DefaultCustomerName is sent when a tab is opened without a customer name.
const DefaultCustomerName = "Cliente"

// ErrTabNotFound is returned when an update addresses a tab the store does not hold.
var ErrTabNotFound = errors.New("tab not found")

// TabOptions configures a TabStore.
type TabOptions struct {
	// LegacyFallback degrades reads and writes to /comandas when the primary resources fail.
	LegacyFallback bool
	// Now is the clock used for lastOrderCreated. Defaults to time.Now.
	Now func() time.Time
}

// TabStore owns the tab collection shown in the tab view, its own filter state and the
// fetch/create/update lifecycle. The area and attendant dimensions are read from the shared table
// filter through a FilterReader.
type TabStore struct {
	client     Remote
	dispatcher Dispatcher
	shared     FilterReader
	logger     *zap.Logger
	opts       TabOptions

	mu         sync.RWMutex
	tabs       []model.Tab
	total      int
	legacy     bool
	attendants normalize.AttendantIndex
	filter     model.TabFilter
	lifecycle  model.Lifecycle
}

// NewTabStore creates an empty store in the idle phase.
func NewTabStore(client Remote, dispatcher Dispatcher, shared FilterReader, opts TabOptions, logger *zap.Logger) *TabStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TabStore{
		client:     client,
		dispatcher: dispatcher,
		shared:     shared,
		logger:     logger,
		opts:       opts,
		filter:     model.DefaultTabFilter(),
		lifecycle:  model.Lifecycle{Phase: model.PhaseIdle},
	}
}

// FetchAll replaces the collection with the tabs that carry a placed order. Table records are read
// only to resolve attendants. Failures never propagate: the collection is emptied and the
// lifecycle records the error, unless the legacy resource can serve the read instead.
func (s *TabStore) FetchAll(ctx context.Context) model.Lifecycle {
	s.mu.Lock()
	s.lifecycle = model.Lifecycle{Phase: model.PhaseLoading}
	s.mu.Unlock()

	sheets, total, err := s.client.ListOrdersheets(ctx)
	var checkpads []upstream.Checkpad
	if err == nil {
		checkpads, err = s.client.ListCheckpads(ctx)
	}
	if err != nil {
		s.logger.Warn("failed to fetch tabs", zap.String("resource", "ordersheets"), zap.Error(err))
		if s.opts.LegacyFallback {
			return s.fetchLegacy(ctx)
		}
		return s.replace(nil, 0, false, nil, model.Lifecycle{Phase: model.PhaseErrored, Error: "could not load tabs"})
	}

	idx := normalize.NewAttendantIndex(checkpads)
	tabs := make([]model.Tab, 0, len(sheets))
	for _, o := range sheets {
		if o.Subtotal.Float() <= 0 {
			continue
		}
		tabs = append(tabs, normalize.Tab(o, idx))
	}
	if total == 0 {
		total = len(sheets)
	}
	return s.replace(tabs, total, false, idx, model.Lifecycle{Phase: model.PhaseReady})
}

func (s *TabStore) fetchLegacy(ctx context.Context) model.Lifecycle {
	comandas, total, err := s.client.ListComandas(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch legacy tabs", zap.String("resource", "comandas"), zap.Error(err))
		return s.replace(nil, 0, true, nil, model.Lifecycle{Phase: model.PhaseErrored, Error: "could not load tabs"})
	}

	tabs := make([]model.Tab, 0, len(comandas))
	for _, c := range comandas {
		tab := normalize.FromComanda(c)
		if tab.TotalValue <= 0 {
			continue
		}
		tabs = append(tabs, tab)
	}
	if total == 0 {
		total = len(comandas)
	}
	return s.replace(tabs, total, true, nil, model.Lifecycle{Phase: model.PhaseReady})
}

func (s *TabStore) replace(tabs []model.Tab, total int, legacy bool, idx normalize.AttendantIndex, lc model.Lifecycle) model.Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = tabs
	s.total = total
	s.legacy = legacy
	s.attendants = idx
	s.lifecycle = lc
	return lc
}

// CreateOne opens a tab, seated at in.TableNumber when it names a known table. After the tab is
// created, marking the table occupied is handed to the dispatcher; the returned tab says nothing
// about that second write, whose failure is only logged.
func (s *TabStore) CreateOne(ctx context.Context, in model.NewTab) (model.Tab, error) {
	var target *upstream.Checkpad
	if number := strings.TrimSpace(in.TableNumber); number != "" {
		checkpads, err := s.client.ListCheckpads(ctx)
		if err != nil {
			s.logger.Warn("failed to resolve table for new tab", zap.String("table", number), zap.Error(err))
			return s.createLegacy(ctx, in, nil, err)
		}
		target = findCheckpad(checkpads, number)
	}

	count := in.CustomerCount
	if count < 1 {
		count = 1
	}
	displayID := strings.TrimSpace(in.DisplayID)
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		customer = DefaultCustomerName
	}
	body := upstream.NewOrdersheet{
		MainIdentifier:    strings.TrimSpace(in.CustomerName),
		CustomerName:      customer,
		NumberOfCustomers: count,
	}
	if displayID != "" {
		body.Identifier = &displayID
		body.MainIdentifier = displayID
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		body.Contact = &phone
	}
	if target != nil {
		body.Checkpad = target.Ref()
	}

	created, err := s.client.CreateOrdersheet(ctx, body)
	if err != nil {
		s.logger.Warn("failed to create tab", zap.String("resource", "ordersheets"), zap.Error(err))
		return s.createLegacy(ctx, in, target, err)
	}
	if created.Checkpad == nil && target != nil {
		created.Checkpad = target.Ref()
	}

	s.mu.RLock()
	idx := s.attendants
	s.mu.RUnlock()
	tab := normalize.Tab(*created, idx)
	if tab.Attendant == "" {
		tab.Attendant = strings.TrimSpace(in.Attendant)
	}

	if target != nil {
		s.dispatchOccupy(*target, *created, in)
	}

	s.prepend(tab)
	return tab, nil
}

func (s *TabStore) createLegacy(ctx context.Context, in model.NewTab, target *upstream.Checkpad, cause error) (model.Tab, error) {
	if !s.opts.LegacyFallback {
		return model.Tab{}, fmt.Errorf("failed to create tab: %w", cause)
	}

	area := ""
	if target != nil {
		area = string(target.Model)
	}
	created, err := s.client.CreateComanda(ctx, normalize.ToComanda(in, area))
	if err != nil {
		return model.Tab{}, fmt.Errorf("failed to create tab: %w", errors.Join(cause, err))
	}
	tab := normalize.FromComanda(*created)
	s.prepend(tab)
	return tab, nil
}

// dispatchOccupy queues the table patch that follows a tab creation.
func (s *TabStore) dispatchOccupy(cp upstream.Checkpad, created upstream.Ordersheet, in model.NewTab) {
	hasOrder := 1
	subtotal := int64(created.Subtotal.Float())
	customer := strings.TrimSpace(in.CustomerName)
	if customer == "" {
		customer = string(created.CustomerName)
	}
	count := 1
	if n := created.NumberOfCustomers.IntPtr(); n != nil {
		count = *n
	}
	stamp := parse.OrderTimestamp(s.opts.Now())

	patch := upstream.CheckpadPatch{
		HasOrder:           &hasOrder,
		Subtotal:           &subtotal,
		OrderSheetIDs:      append(append([]upstream.FlexID(nil), cp.OrderSheetIDs...), created.ID),
		CustomerIdentifier: &customer,
		NumberOfCustomers:  &count,
		LastOrderCreated:   &stamp,
	}
	if attendant := strings.TrimSpace(in.Attendant); attendant != "" {
		patch.AuthorName = &attendant
	}

	id := cp.ID.String()
	s.dispatcher.Dispatch(worker.Task{
		Name: "occupy table " + string(cp.Identifier),
		Run: func(ctx context.Context) error {
			_, err := s.client.PatchCheckpad(ctx, id, patch)
			return err
		},
	})
}

func (s *TabStore) prepend(tab model.Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = append([]model.Tab{tab}, s.tabs...)
	s.total++
}

// findCheckpad resolves a table number to its raw record: an exact identifier match first, then a
// numeric match ("05" and "5" name the same table).
func findCheckpad(checkpads []upstream.Checkpad, number string) *upstream.Checkpad {
	for i := range checkpads {
		if strings.TrimSpace(string(checkpads[i].Identifier)) == number {
			return &checkpads[i]
		}
	}
	want, ok := parse.TableNumber(number)
	if !ok {
		return nil
	}
	for i := range checkpads {
		if got, ok := parse.TableNumber(string(checkpads[i].Identifier)); ok && got == want {
			return &checkpads[i]
		}
	}
	return nil
}

// UpdateOne writes a partial update of the tab shown as displayKey. The write targets the tab's
// source key when known and the display key otherwise.
func (s *TabStore) UpdateOne(ctx context.Context, displayKey string, patch model.TabPatch) (model.Tab, error) {
	s.mu.RLock()
	current, found := s.find(displayKey)
	idx := s.attendants
	s.mu.RUnlock()

	key := displayKey
	if found && current.SourceID != 0 {
		key = strconv.FormatInt(current.SourceID, 10)
	}

	body := upstream.OrdersheetPatch{
		CustomerName:      patch.CustomerName,
		Contact:           patch.Phone,
		NumberOfCustomers: patch.CustomerCount,
	}
	if patch.TotalValue != nil {
		var minor int64
		if *patch.TotalValue > 0 {
			minor = normalize.ToMinorUnits(*patch.TotalValue)
		}
		body.Subtotal = &minor
	}

	var updated model.Tab
	raw, err := s.client.PatchOrdersheet(ctx, key, body)
	switch {
	case err == nil:
		updated = normalize.Tab(*raw, idx)
		if updated.Attendant == "" && found {
			updated.Attendant = current.Attendant
		}
	case s.opts.LegacyFallback:
		s.logger.Warn("failed to update tab, trying legacy resource", zap.String("key", key), zap.Error(err))
		legacy, lerr := s.client.PatchComanda(ctx, displayKey, upstream.ComandaPatch{
			Customer:      patch.CustomerName,
			Phone:         patch.Phone,
			Total:         patch.TotalValue,
			CustomerCount: patch.CustomerCount,
		})
		if lerr != nil {
			return model.Tab{}, fmt.Errorf("failed to update tab %s: %w", displayKey, errors.Join(err, lerr))
		}
		updated = normalize.FromComanda(*legacy)
	default:
		return model.Tab{}, fmt.Errorf("failed to update tab %s: %w", displayKey, err)
	}

	s.splice(displayKey, updated)
	return updated, nil
}

// find must be called with s.mu held.
func (s *TabStore) find(displayKey string) (model.Tab, bool) {
	for _, t := range s.tabs {
		if t.ID == displayKey {
			return t, true
		}
	}
	if id, err := strconv.ParseInt(displayKey, 10, 64); err == nil {
		for _, t := range s.tabs {
			if t.SourceID == id {
				return t, true
			}
		}
	}
	return model.Tab{}, false
}

func (s *TabStore) splice(displayKey string, updated model.Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tabs {
		if (updated.SourceID != 0 && t.SourceID == updated.SourceID) || t.ID == displayKey {
			tabs := append([]model.Tab(nil), s.tabs...)
			tabs[i] = updated
			s.tabs = tabs
			return
		}
	}
}

// Get returns the tab shown as displayKey.
func (s *TabStore) Get(displayKey string) (model.Tab, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(displayKey)
}

// Tabs returns the tab collection.
func (s *TabStore) Tabs() []model.Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tabs
}

// TotalCount is the server-reported tab count of the last fetch, or the record count when the
// server did not report one.
func (s *TabStore) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Legacy reports whether the collection was served by the legacy resource.
func (s *TabStore) Legacy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.legacy
}

// Lifecycle returns the state of the last fetch.
func (s *TabStore) Lifecycle() model.Lifecycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lifecycle
}

// Filter returns the tab view's own filter state.
func (s *TabStore) Filter() model.TabFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// View combines the shared area and attendant dimensions with the tab view's own state.
func (s *TabStore) View() model.TabView {
	shared := s.shared.TableFilter()
	own := s.Filter()
	return model.TabView{
		Area:          shared.Area,
		Attendant:     shared.Attendant,
		ExtendedState: own.ExtendedState,
		Query:         own.Query,
	}
}

// SetStatusFilter accepts only "all": tabs have no status beyond existence.
func (s *TabStore) SetStatusFilter(status string) error {
	if status != model.All {
		return fmt.Errorf("unsupported tab status filter %q", status)
	}
	s.mu.Lock()
	s.filter.Status = status
	s.mu.Unlock()
	return nil
}

// SetExtendedStateFilter replaces the extended-state dimension.
func (s *TabStore) SetExtendedStateFilter(state model.ExtendedState) {
	s.mu.Lock()
	s.filter.ExtendedState = state
	s.mu.Unlock()
}

// SetQuery replaces the free-text query.
func (s *TabStore) SetQuery(query string) {
	s.mu.Lock()
	s.filter.Query = query
	s.mu.Unlock()
}
