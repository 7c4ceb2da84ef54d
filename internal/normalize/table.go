package normalize

import (
	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/upstream"
)

// areaLabels maps the server's table models onto coarse area labels.
var areaLabels = map[string]string{
	"Mesa":        "table",
	"Barraca":     "kiosk",
	"Apartamento": "room",
}

// AreaLabel returns the coarse area for a table model. Unknown models pass through unchanged.
func AreaLabel(tableModel string) string {
	if label, ok := areaLabels[tableModel]; ok {
		return label
	}
	return tableModel
}

// Table converts one raw table record into the canonical entity. A non-nil totalOverride replaces
// the record's own subtotal.
func Table(cp upstream.Checkpad, totalOverride *float64) model.Table {
	id, _ := cp.ID.Int64()

	occupied := cp.HasOrder.Set() || len(cp.OrderSheetIDs) > 0
	status := model.StatusAvailable
	switch {
	case occupied:
		status = model.StatusOccupied
	case cp.Activity == model.ActivityInactive:
		status = model.StatusInactive
	}

	total := FromUpstream(cp.Subtotal.Float())
	if totalOverride != nil {
		total = *totalOverride
	}

	return model.Table{
		ID:            id,
		Number:        string(cp.Identifier),
		Status:        status,
		Model:         string(cp.Model),
		Area:          AreaLabel(string(cp.Model)),
		Attendant:     deref(cp.AuthorName),
		Customer:      deref(cp.CustomerIdentifier),
		IdleMinutes:   cp.IdleTime.IntPtr(),
		OpenTabCount:  len(cp.OrderSheetIDs),
		TotalValue:    total,
		CustomerCount: cp.NumberOfCustomers.IntPtr(),
		Activity:      string(cp.Activity),
		ModelIcon:     deref(cp.ModelIcon),
	}
}

func deref(s *upstream.Text) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
