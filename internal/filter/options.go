package filter

import (
	"fmt"
	"sort"

	"comanda-dashboard-backend/internal/model"
)

// Areas lists the distinct non-empty areas of the table collection, sorted.
func Areas(tables []model.Table) []string {
	return distinct(tables, func(t model.Table) string { return t.Area })
}

// Attendants lists the distinct non-empty attendants of the table collection, sorted.
func Attendants(tables []model.Table) []string {
	return distinct(tables, func(t model.Table) string { return t.Attendant })
}

func distinct(tables []model.Table, field func(model.Table) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, t := range tables {
		v := field(t)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// FreeTables lists the tables a new tab can be seated at.
func FreeTables(tables []model.Table) []model.TableOption {
	out := []model.TableOption{}
	for _, t := range tables {
		if t.Status != model.StatusAvailable || t.Number == "" {
			continue
		}
		out = append(out, option(t))
	}
	return out
}

// AllTables lists every numbered table regardless of status.
func AllTables(tables []model.Table) []model.TableOption {
	out := []model.TableOption{}
	for _, t := range tables {
		if t.Number == "" {
			continue
		}
		out = append(out, option(t))
	}
	return out
}

func option(t model.Table) model.TableOption {
	label := fmt.Sprintf("Table %s", t.Number)
	if t.Area != "" {
		label = fmt.Sprintf("Table %s - %s", t.Number, t.Area)
	}
	return model.TableOption{Value: t.Number, Label: label}
}
