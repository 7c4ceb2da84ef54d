package store

import (
	"errors"
	"strconv"
)

// ErrNotFound is returned when a collection holds no record under the requested key.
var ErrNotFound = errors.New("record not found")

// Record is one JSON object of a collection.
type Record map[string]any

// Key returns the record's id as a string key, or "" when it has none.
func (r Record) Key() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}
