package model

import "fmt"

// All disables a filter dimension.
const All = "all"

// ExtendedState distinguishes occupied-and-served, idle, occupied-without-orders and free.
type ExtendedState string

const (
	ExtendedAll       ExtendedState = "all"
	ExtendedInService ExtendedState = "in-service"
	ExtendedIdle      ExtendedState = "idle"
	ExtendedNoOrder   ExtendedState = "no-order"
	ExtendedAvailable ExtendedState = "available"
)

// ParseExtendedState validates a raw extended-state value.
func ParseExtendedState(s string) (ExtendedState, error) {
	switch e := ExtendedState(s); e {
	case ExtendedAll, ExtendedInService, ExtendedIdle, ExtendedNoOrder, ExtendedAvailable:
		return e, nil
	}
	return "", fmt.Errorf("unknown extended state %q", s)
}

// TableFilter is the tables view filter state. Its Area and Attendant are also the single source
// of truth for the tabs view.
type TableFilter struct {
	Status        string        `json:"status"`
	Area          string        `json:"area"`
	Attendant     string        `json:"attendant"`
	ExtendedState ExtendedState `json:"extendedState"`
	Query         string        `json:"query"`
}

// DefaultTableFilter has every dimension disabled.
func DefaultTableFilter() TableFilter {
	return TableFilter{Status: All, Area: All, Attendant: All, ExtendedState: ExtendedAll}
}

// TabFilter is the state owned by the tabs view. Tabs have no status beyond existence, so the
// only legal status is All.
type TabFilter struct {
	Status        string        `json:"status"`
	ExtendedState ExtendedState `json:"extendedState"`
	Query         string        `json:"query"`
}

// DefaultTabFilter has every dimension disabled.
func DefaultTabFilter() TabFilter {
	return TabFilter{Status: All, ExtendedState: ExtendedAll}
}

// TabView is the complete filter applied to tabs: shared dimensions read from the tables filter
// plus the tabs view's own state.
type TabView struct {
	Area          string        `json:"area"`
	Attendant     string        `json:"attendant"`
	ExtendedState ExtendedState `json:"extendedState"`
	Query         string        `json:"query"`
}
