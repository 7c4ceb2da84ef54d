package model

// TableStatus is derived from tabs and the server's activity marker. It is never stored remotely.
type TableStatus string

const (
	StatusAvailable TableStatus = "available"
	StatusOccupied  TableStatus = "occupied"
	StatusReserved  TableStatus = "reserved"
	StatusInactive  TableStatus = "inactive"
)

// Priority orders statuses for merging duplicate table numbers: occupied > reserved > inactive > available.
func (s TableStatus) Priority() int {
	switch s {
	case StatusOccupied:
		return 3
	case StatusReserved:
		return 2
	case StatusInactive:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the four known statuses.
func (s TableStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusInactive:
		return true
	}
	return false
}

// ActivityInactive is the raw activity value the server uses for idle tables.
const ActivityInactive = "inactive"

// Table is the canonical table ("mesa") entity. It is a materialized view over the raw table record
// joined with the tabs that reference it.
type Table struct {
	ID            int64       `json:"id"`
	Number        string      `json:"number"`
	Status        TableStatus `json:"status"`
	Model         string      `json:"model,omitempty"`
	Area          string      `json:"area,omitempty"`
	Attendant     string      `json:"attendant,omitempty"`
	Customer      string      `json:"customer,omitempty"`
	IdleMinutes   *int        `json:"idleMinutesSinceLastOrder,omitempty"`
	OpenTabCount  int         `json:"openTabCount"`
	TotalValue    float64     `json:"totalValue"`
	CustomerCount *int        `json:"customerCount,omitempty"`
	Activity      string      `json:"rawActivityFlag,omitempty"`
	ModelIcon     string      `json:"modelIcon,omitempty"`
}

// TablePatch is a partial canonical update. Nil fields are left untouched.
type TablePatch struct {
	Status      *TableStatus `json:"status,omitempty"`
	Attendant   *string      `json:"attendant,omitempty"`
	IdleMinutes *int         `json:"idleMinutesSinceLastOrder,omitempty"`
	TotalValue  *float64     `json:"totalValue,omitempty"`
}

// TableOption is one entry of a table selector.
type TableOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
