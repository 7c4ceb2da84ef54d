// Package filter derives the filtered, search-matched views of the table and tab collections.
// Every function is pure and total over already-normalized data.
package filter

import (
	"strings"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/parse"
)

// NoOrderTolerance is the largest total an occupied table may carry and still count as having no orders.
const NoOrderTolerance = 0.01

// TablePredicate reports whether a table belongs in the view.
type TablePredicate func(model.Table) bool

// TablePredicates returns one predicate per active dimension of f. Dimensions set to "all" (or an
// empty query) contribute nothing. The predicates are independent, so they can be applied in any order.
func TablePredicates(f model.TableFilter) []TablePredicate {
	var preds []TablePredicate
	if f.Status != "" && f.Status != model.All {
		status := model.TableStatus(f.Status)
		preds = append(preds, func(t model.Table) bool { return t.Status == status })
	}
	if f.Attendant != "" && f.Attendant != model.All {
		preds = append(preds, func(t model.Table) bool { return t.Attendant == f.Attendant })
	}
	if f.Area != "" && f.Area != model.All {
		preds = append(preds, func(t model.Table) bool { return t.Area == f.Area })
	}
	if p := tableExtendedState(f.ExtendedState); p != nil {
		preds = append(preds, p)
	}
	if q := parse.Query(f.Query); q != "" {
		preds = append(preds, func(t model.Table) bool {
			return matches(q, t.Number, t.Customer, t.Attendant, t.Area)
		})
	}
	return preds
}

func tableExtendedState(s model.ExtendedState) TablePredicate {
	switch s {
	case model.ExtendedInService:
		return func(t model.Table) bool { return t.Status == model.StatusOccupied }
	case model.ExtendedIdle:
		return func(t model.Table) bool { return t.Activity == model.ActivityInactive }
	case model.ExtendedNoOrder:
		return func(t model.Table) bool {
			return t.Status == model.StatusOccupied && t.TotalValue <= NoOrderTolerance
		}
	case model.ExtendedAvailable:
		return func(t model.Table) bool { return t.Status == model.StatusAvailable }
	}
	return nil
}

// Tables returns the tables matching every active dimension of f, in collection order.
func Tables(tables []model.Table, f model.TableFilter) []model.Table {
	return ApplyTables(tables, TablePredicates(f)...)
}

// ApplyTables keeps the tables accepted by every predicate.
func ApplyTables(tables []model.Table, preds ...TablePredicate) []model.Table {
	out := make([]model.Table, 0, len(tables))
next:
	for _, t := range tables {
		for _, p := range preds {
			if !p(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

// matches is a case-insensitive substring search over fields. q must already be normalized.
func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
