package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/upstream"
)

func TestFromComanda(t *testing.T) {
	table := 3
	total := 42.0
	tab := FromComanda(upstream.Comanda{ID: "17", Customer: "Rui", TableID: &table, Area: "Mesa", Total: &total})
	assert.Equal(t, "17", tab.ID)
	assert.Equal(t, int64(17), tab.SourceID)
	assert.Equal(t, "table", tab.Area)
	assert.Equal(t, 42.0, tab.TotalValue)
	assert.True(t, tab.Seated())
}

func TestToComanda(t *testing.T) {
	c := ToComanda(model.NewTab{DisplayID: " C1 ", CustomerName: "Rui", TableNumber: "4", Attendant: "Marta"}, "Mesa")
	assert.Equal(t, "C1", c.ID)
	if assert.NotNil(t, c.TableID) {
		assert.Equal(t, 4, *c.TableID)
	}
	if assert.NotNil(t, c.CustomerCount) {
		assert.Equal(t, 1, *c.CustomerCount)
	}
	assert.Equal(t, 0.0, *c.Total)
}
