package workflow

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"

	"comanda-dashboard-backend/internal/model"
	"comanda-dashboard-backend/internal/parse"
)

// MinAttendantLength is the shortest accepted attendant name, after trimming.
const MinAttendantLength = 4

var errAttendantTooShort = fmt.Errorf("must be at least %d characters", MinAttendantLength)

// CustomerInfo is the first step's input.
type CustomerInfo struct {
	DisplayID     string `json:"displayId"`
	CustomerName  string `json:"customerName"`
	Phone         string `json:"phone"`
	CustomerCount int    `json:"customerCount"`
	Attendant     string `json:"attendant"`
}

// Validate enforces the attendant rule.
func (c *CustomerInfo) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Attendant, validation.Required, validation.By(minTrimmed(MinAttendantLength))),
		validation.Field(&c.CustomerCount, validation.Min(0)),
	)
}

func minTrimmed(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if utf8.RuneCountInString(strings.TrimSpace(s)) < n {
			return errAttendantTooShort
		}
		return nil
	}
}

// Location is the second step's input.
type Location struct {
	TableNumber string `json:"tableNumber"`
}

// Validate requires a table selection.
func (l *Location) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.TableNumber, validation.Required.Error("a table must be selected")),
	)
}

var errNoTable = errors.New("no table selected")

// CheckTarget enforces the availability policy against the current collections: the table must be
// known and available, and no tab may already be seated at it.
func CheckTarget(tables []model.Table, tabs []model.Tab, tableNumber string) error {
	number := strings.TrimSpace(tableNumber)
	if number == "" {
		return errNoTable
	}

	var target *model.Table
	for i := range tables {
		if tables[i].Number == number {
			target = &tables[i]
			break
		}
	}
	if target == nil {
		return &RejectionError{Message: fmt.Sprintf("table %s does not exist", number)}
	}
	if target.Status != model.StatusAvailable {
		return &RejectionError{Message: fmt.Sprintf("table %s is not available", number)}
	}

	if n, ok := parse.TableNumber(number); ok {
		for _, tab := range tabs {
			if tab.TableID != nil && *tab.TableID == n {
				return &RejectionError{Message: fmt.Sprintf("table %s already has an active tab", number)}
			}
		}
	}
	return nil
}
