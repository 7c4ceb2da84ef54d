package normalize

import (
	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/upstream"
)

// tabAggregate collects the tabs that point at one table.
type tabAggregate struct {
	ids   []upstream.FlexID
	total float64
}

// Tables derives the canonical table collection from the two raw collections. Each table is joined
// with the tabs referencing it (by table id, or by table number when the reference carries no id),
// then tables sharing a number are merged. The result is recomputed from scratch on every call.
func Tables(checkpads []upstream.Checkpad, sheets []upstream.Ordersheet) []model.Table {
	byID := make(map[upstream.FlexID]*tabAggregate)
	byNumber := make(map[string]*tabAggregate)
	for _, o := range sheets {
		if o.Checkpad == nil {
			continue
		}
		var agg *tabAggregate
		switch {
		case o.Checkpad.ID != "":
			agg = byID[o.Checkpad.ID]
			if agg == nil {
				agg = &tabAggregate{}
				byID[o.Checkpad.ID] = agg
			}
		case o.Checkpad.Identifier != "":
			agg = byNumber[string(o.Checkpad.Identifier)]
			if agg == nil {
				agg = &tabAggregate{}
				byNumber[string(o.Checkpad.Identifier)] = agg
			}
		default:
			continue
		}
		agg.ids = append(agg.ids, o.ID)
		agg.total = Sum(agg.total, FromUpstream(o.Subtotal.Float()))
	}

	merged := make(map[string]int)
	tables := make([]model.Table, 0, len(checkpads))
	for _, cp := range checkpads {
		var joined []*tabAggregate
		if agg := byID[cp.ID]; agg != nil {
			joined = append(joined, agg)
		}
		if agg := byNumber[string(cp.Identifier)]; agg != nil && cp.Identifier != "" {
			joined = append(joined, agg)
		}

		var override *float64
		var total float64
		for _, agg := range joined {
			cp.OrderSheetIDs = unionIDs(cp.OrderSheetIDs, agg.ids)
			total = Sum(total, agg.total)
		}
		if total > 0 {
			override = &total
		}

		t := Table(cp, override)
		key := t.Number
		if key == "" {
			key = cp.ID.String()
		}
		if idx, ok := merged[key]; ok {
			tables[idx] = Merge(tables[idx], t)
			continue
		}
		merged[key] = len(tables)
		tables = append(tables, t)
	}
	return tables
}

// Merge combines two tables that share a number. The newer record's fields win, except that the
// status is the higher-priority of the two and the tab counts and totals are summed.
func Merge(existing, next model.Table) model.Table {
	out := next
	if existing.Status.Priority() > next.Status.Priority() {
		out.Status = existing.Status
	}
	out.OpenTabCount = existing.OpenTabCount + next.OpenTabCount
	out.TotalValue = Sum(existing.TotalValue, next.TotalValue)
	return out
}

func unionIDs(a, b []upstream.FlexID) []upstream.FlexID {
	seen := make(map[upstream.FlexID]struct{}, len(a)+len(b))
	out := make([]upstream.FlexID, 0, len(a)+len(b))
	for _, ids := range [][]upstream.FlexID{a, b} {
		for _, id := range ids {
			if id == "" {
				out = append(out, id)
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
