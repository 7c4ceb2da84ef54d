// Package cart is the menu catalog and the per-tab shopping cart whose subtotal is posted onto a tab.
package cart

import (
	"strings"

	"comanda-dashboard-backend/config"
	"comanda-dashboard-backend/internal/parse"
)

// BestSellers is the pseudo-category that lists every item.
const BestSellers = "Mais vendidas"

// Item is one product of the menu.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Catalog is the read-only menu.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

// NewCatalog builds the catalog from configuration. Later duplicates of an id are ignored.
func NewCatalog(entries []config.MenuItem) *Catalog {
	c := &Catalog{byID: make(map[string]Item, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, ok := c.byID[e.ID]; ok {
			continue
		}
		item := Item{ID: e.ID, Name: e.Name, Price: e.Price, Category: e.Category}
		c.items = append(c.items, item)
		c.byID[e.ID] = item
	}
	return c
}

// Get looks an item up by id.
func (c *Catalog) Get(id string) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Categories lists the categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range c.items {
		if _, ok := seen[item.Category]; ok || item.Category == "" {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

// Search lists the items of a category whose name contains query. An empty category or
// BestSellers matches every category.
func (c *Catalog) Search(category, query string) []Item {
	q := parse.Query(query)
	out := []Item{}
	for _, item := range c.items {
		if category != "" && category != BestSellers && item.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Name), q) {
			continue
		}
		out = append(out, item)
	}
	return out
}
