package filter

import (
	"strconv"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/parse"
)

// IdleThresholdMinutes is the idle time after which an attended tab counts as idle.
const IdleThresholdMinutes = 15

// TabPredicate reports whether a tab belongs in the view.
type TabPredicate func(model.Tab) bool

// TabPredicates returns one predicate per active dimension of v.
func TabPredicates(v model.TabView) []TabPredicate {
	var preds []TabPredicate
	if v.Area != "" && v.Area != model.All {
		preds = append(preds, func(t model.Tab) bool { return t.Area == v.Area })
	}
	if v.Attendant != "" && v.Attendant != model.All {
		preds = append(preds, func(t model.Tab) bool { return t.Attendant == v.Attendant })
	}
	if p := tabExtendedState(v.ExtendedState); p != nil {
		preds = append(preds, p)
	}
	if q := parse.Query(v.Query); q != "" {
		preds = append(preds, func(t model.Tab) bool {
			return matches(q, t.ID, t.CustomerName, t.ContactPhone, tableNumber(t))
		})
	}
	return preds
}

func tabExtendedState(s model.ExtendedState) TabPredicate {
	switch s {
	case model.ExtendedInService:
		return func(t model.Tab) bool { return t.TotalValue > 0 && t.Attendant != "" }
	case model.ExtendedIdle:
		return func(t model.Tab) bool {
			return t.IdleMinutes != nil && *t.IdleMinutes > IdleThresholdMinutes && t.Attendant != ""
		}
	case model.ExtendedNoOrder:
		return func(t model.Tab) bool { return t.TotalValue <= 0 && t.Attendant != "" }
	case model.ExtendedAvailable:
		return func(t model.Tab) bool { return t.Attendant == "" }
	}
	return nil
}

// Tabs returns the tabs matching every active dimension of v, in collection order.
func Tabs(tabs []model.Tab, v model.TabView) []model.Tab {
	return ApplyTabs(tabs, TabPredicates(v)...)
}

// ApplyTabs keeps the tabs accepted by every predicate.
func ApplyTabs(tabs []model.Tab, preds ...TabPredicate) []model.Tab {
	out := make([]model.Tab, 0, len(tabs))
next:
	for _, t := range tabs {
		for _, p := range preds {
			if !p(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}

func tableNumber(t model.Tab) string {
	if t.TableID == nil {
		return ""
	}
	return strconv.Itoa(*t.TableID)
}
