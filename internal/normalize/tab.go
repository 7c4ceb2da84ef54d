package normalize

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/parse"
	"comanda-dashboard-backend/internal/upstream"
)

// AttendantIndex maps a table's record id to the attendant serving it. Callers rebuild it from the
// current table records before every normalization pass.
type AttendantIndex map[upstream.FlexID]string

// NewAttendantIndex builds the join map from raw table records.
func NewAttendantIndex(checkpads []upstream.Checkpad) AttendantIndex {
	idx := make(AttendantIndex, len(checkpads))
	for _, cp := range checkpads {
		if cp.ID == "" || cp.AuthorName == nil || *cp.AuthorName == "" {
			continue
		}
		idx[cp.ID] = string(*cp.AuthorName)
	}
	return idx
}

// Tab converts one raw tab record into the canonical entity.
func Tab(o upstream.Ordersheet, attendants AttendantIndex) model.Tab {
	tab := model.Tab{
		ID:            DisplayID(o),
		CustomerName:  strings.TrimSpace(string(o.CustomerName)),
		ContactPhone:  deref(o.Contact),
		IdleMinutes:   o.IdleTime.IntPtr(),
		TotalValue:    FromUpstream(o.Subtotal.Float()),
		CustomerCount: o.NumberOfCustomers.IntPtr(),
	}
	if id, ok := o.ID.Int64(); ok {
		tab.SourceID = id
	}

	if o.Checkpad != nil {
		tab.Area = AreaLabel(string(o.Checkpad.Model))
		if n, ok := parse.TableNumber(string(o.Checkpad.Identifier)); ok {
			tab.TableID = &n
		}
	}

	switch {
	case o.Author != nil && o.Author.Name != "":
		tab.Attendant = string(o.Author.Name)
	case o.Checkpad != nil:
		tab.Attendant = attendants[o.Checkpad.ID]
	}
	return tab
}

// DisplayID resolves the identifier shown for a tab: the explicit identifier, then the main
// identifier, customer name, contact phone, the record key and finally a name derived from the
// record contents, which stays the same across fetches of an unchanged record.
func DisplayID(o upstream.Ordersheet) string {
	candidates := []string{
		deref(o.Identifier),
		string(o.MainIdentifier),
		string(o.CustomerName),
		deref(o.Contact),
		o.ID.String(),
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}

	raw, err := json.Marshal(o)
	if err != nil {
		return "tab-" + uuid.NewString()[:8]
	}
	return "tab-" + uuid.NewSHA1(uuid.NameSpaceOID, raw).String()[:8]
}
