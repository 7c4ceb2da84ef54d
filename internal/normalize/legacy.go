package normalize

import (
	"strconv"
	"strings"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/upstream"
)

// FromComanda converts a legacy record. The legacy resource has no table join and already speaks
// major units.
func FromComanda(c upstream.Comanda) model.Tab {
	tab := model.Tab{
		ID:            c.ID,
		CustomerName:  c.Customer,
		ContactPhone:  c.Phone,
		TableID:       c.TableID,
		Area:          AreaLabel(c.Area),
		IdleMinutes:   c.IdleMinutes,
		CustomerCount: c.CustomerCount,
		Attendant:     c.Attendant,
	}
	if c.Total != nil {
		tab.TotalValue = *c.Total
	}
	if id, err := strconv.ParseInt(c.ID, 10, 64); err == nil {
		tab.SourceID = id
	}
	return tab
}

// ToComanda builds the legacy creation body.
func ToComanda(in model.NewTab, area string) upstream.Comanda {
	zero := 0
	total := 0.0
	count := in.CustomerCount
	if count < 1 {
		count = 1
	}
	c := upstream.Comanda{
		ID:            strings.TrimSpace(in.DisplayID),
		Customer:      strings.TrimSpace(in.CustomerName),
		Phone:         strings.TrimSpace(in.Phone),
		Area:          area,
		IdleMinutes:   &zero,
		Total:         &total,
		CustomerCount: &count,
		Attendant:     strings.TrimSpace(in.Attendant),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(in.TableNumber)); err == nil {
		c.TableID = &n
	}
	return c
}
