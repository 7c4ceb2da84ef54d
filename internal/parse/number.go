package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var leadingIntRe = regexp.MustCompile(`^\s*([+-]?\d+)`)

// TableNumber extracts the integer a table identifier starts with ("12", " 7 ", "12A" -> 12).
// Identifiers without a leading integer are not numbered and report false.
func TableNumber(raw string) (int, bool) {
	m := leadingIntRe.FindStringSubmatch(raw)
	if len(m) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// orderTimestampLayout is the server's lastOrderCreated format: local wall time with microseconds.
const orderTimestampLayout = "2006-01-02 15:04:05.000000"

// OrderTimestamp formats t the way the server stores lastOrderCreated. Sub-second precision is dropped.
func OrderTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(orderTimestampLayout)
}

// Query normalizes a free-text search query for case-insensitive substring matching.
func Query(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
