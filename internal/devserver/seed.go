package devserver

import (
	"context"
	"fmt"

	"comanda-dashboard-backend/internal/store"
)

// SeedData is the dataset loaded by Seed: a small dining room with one open tab.
func SeedData() map[string][]store.Record {
	checkpads := []store.Record{}
	for i := 1; i <= 8; i++ {
		rec := store.Record{
			"id":         i,
			"hash":       fmt.Sprintf("cp-%02d", i),
			"identifier": fmt.Sprintf("%d", i),
			"model":      "Mesa",
			"activity":   "active",
			"hasOrder":   0,
		}
		if i > 6 {
			rec["model"] = "Barraca"
		}
		checkpads = append(checkpads, rec)
	}
	checkpads[0]["hasOrder"] = 1
	checkpads[0]["authorName"] = "Carlos"
	checkpads[0]["orderSheetIds"] = []int{1}
	checkpads[0]["customerIdentifier"] = "Ana"
	checkpads[0]["subtotal"] = 8450
	checkpads[4]["activity"] = "inactive"

	return map[string][]store.Record{
		"checkpads": checkpads,
		"ordersheets": {
			{
				"id":                1,
				"mainIdentifier":    "Ana",
				"customerName":      "Ana",
				"contact":           "95 99999-0001",
				"subtotal":          8450,
				"hasOrder":          1,
				"numberOfCustomers": 2,
				"checkpad":          store.Record{"id": 1, "hash": "cp-01", "identifier": "1", "model": "Mesa"},
			},
		},
		"areas": {
			{
				"id":                 1,
				"name":               "Salão",
				"sheetLabel":         "Mesa",
				"sheetLabelPlural":   "Mesas",
				"maxIdleTime":        30,
				"maxIdleTimeEnabled": 1,
				"serviceModel":       "table",
				"checkpadModels":     []store.Record{{"id": 1, "name": "Mesa", "icon": "table"}},
			},
			{
				"id":                 2,
				"name":               "Quiosque",
				"sheetLabel":         "Barraca",
				"sheetLabelPlural":   "Barracas",
				"maxIdleTime":        45,
				"maxIdleTimeEnabled": 0,
				"serviceModel":       "kiosk",
				"checkpadModels":     []store.Record{{"id": 2, "name": "Barraca", "icon": "tent"}},
			},
		},
		"comandas": {
			{"id": "C1", "cliente": "Ana", "mesaId": 1, "area": "table", "total": 84.5, "qtdClientes": 2, "atendente": "Carlos"},
		},
	}
}

// Seed upserts SeedData into s.
func Seed(ctx context.Context, s store.Store) error {
	for _, name := range Collections {
		if err := s.Upsert(ctx, name, SeedData()[name]); err != nil {
			return fmt.Errorf("failed to seed %s: %w", name, err)
		}
	}
	return nil
}
