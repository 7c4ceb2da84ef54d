package model

// Tab is the canonical open bill ("comanda"). It may or may not be seated at a table.
type Tab struct {
	// ID is the display identifier; it is derived and may be a fallback value.
	ID string `json:"id"`
	// SourceID is the remote record key that writes must target. Zero when unknown.
	SourceID      int64   `json:"sourceId,omitempty"`
	CustomerName  string  `json:"customerName,omitempty"`
	ContactPhone  string  `json:"contactPhone,omitempty"`
	TableID       *int    `json:"tableId,omitempty"`
	Area          string  `json:"area,omitempty"`
	IdleMinutes   *int    `json:"idleMinutes,omitempty"`
	TotalValue    float64 `json:"totalValue"`
	CustomerCount *int    `json:"customerCount,omitempty"`
	Attendant     string  `json:"attendant,omitempty"`
}

// Seated reports whether the tab is attached to a table.
func (t Tab) Seated() bool { return t.TableID != nil }

// NewTab is the input of tab creation.
type NewTab struct {
	DisplayID     string `json:"displayId,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	Phone         string `json:"phone,omitempty"`
	TableNumber   string `json:"tableNumber,omitempty"`
	CustomerCount int    `json:"customerCount"`
	Attendant     string `json:"attendant"`
}

// TabPatch is a partial canonical update of a tab. Nil fields are left untouched.
type TabPatch struct {
	TotalValue    *float64 `json:"totalValue,omitempty"`
	CustomerName  *string  `json:"customerName,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	CustomerCount *int     `json:"customerCount,omitempty"`
}
