package upstream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexID is a record key that the remote API sends either as a JSON number or a JSON string.
type FlexID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*id = ""
			return nil
		}
		*id = FlexID(strings.TrimSpace(s))
		return nil
	}
	*id = FlexID(string(b))
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings.
func (id FlexID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Int64 returns the numeric value of the id, if it has one.
func (id FlexID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id FlexID) String() string { return string(id) }

// Text is a lenient string field. Numbers and booleans keep their literal form, since the
// dashboard only ever displays or compares these values; null, objects and arrays read as "".
type Text string

// UnmarshalJSON never fails.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*t = ""
			return nil
		}
		*t = Text(s)
	case '{', '[', 'n':
		*t = ""
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Flag is the server's 0/1 marker. Booleans are accepted as well.
type Flag int

// UnmarshalJSON never fails; anything unrecognised reads as 0.
func (f *Flag) UnmarshalJSON(b []byte) error {
	switch s := strings.Trim(string(bytes.TrimSpace(b)), `"`); s {
	case "true", "1":
		*f = 1
	default:
		if n, err := strconv.ParseFloat(s, 64); err == nil && n != 0 {
			*f = 1
		} else {
			*f = 0
		}
	}
	return nil
}

// Set reports whether the flag is raised.
func (f Flag) Set() bool { return f != 0 }

// Number is a lenient numeric field: numbers and numeric strings decode, anything else reads as 0.
// Absence is expressed with a nil *Number.
type Number float64

// UnmarshalJSON never fails.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Float returns the value behind a possibly nil field.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// IntPtr converts an optional number into an optional int.
func (n *Number) IntPtr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

// Checkpad is a raw table record from GET /checkpads.
type Checkpad struct {
	ID                 FlexID   `json:"id"`
	Hash               Text     `json:"hash,omitempty"`
	Model              Text     `json:"model"`
	Activity           Text     `json:"activity"`
	HasOrder           Flag     `json:"hasOrder"`
	IdleTime           *Number  `json:"idleTime"`
	Subtotal           *Number  `json:"subtotal"`
	ModelIcon          *Text    `json:"modelIcon,omitempty"`
	AuthorName         *Text    `json:"authorName,omitempty"`
	Identifier         Text     `json:"identifier"`
	OrderSheetIDs      []FlexID `json:"orderSheetIds,omitempty"`
	NumberOfCustomers  *Number  `json:"numberOfCustomers,omitempty"`
	CustomerIdentifier *Text    `json:"customerIdentifier,omitempty"`
	LastOrderCreated   *Text    `json:"lastOrderCreated,omitempty"`
}

// CheckpadRef is the table reference embedded in an ordersheet.
type CheckpadRef struct {
	ID         FlexID `json:"id"`
	Hash       Text   `json:"hash,omitempty"`
	Model      Text   `json:"model,omitempty"`
	Identifier Text   `json:"identifier,omitempty"`
}

// Ref builds the reference an ordersheet uses to point at this checkpad.
func (c Checkpad) Ref() *CheckpadRef {
	return &CheckpadRef{ID: c.ID, Hash: c.Hash, Model: c.Model, Identifier: c.Identifier}
}

// Author is the staff member that opened an ordersheet.
type Author struct {
	ID   FlexID `json:"id"`
	Name Text   `json:"name,omitempty"`
	Type Text   `json:"type,omitempty"`
}

// Ordersheet is a raw tab record from GET /ordersheets.
type Ordersheet struct {
	ID                FlexID       `json:"id"`
	Contact           *Text        `json:"contact,omitempty"`
	HasOrder          Flag         `json:"hasOrder"`
	IdleTime          *Number      `json:"idleTime"`
	Subtotal          *Number      `json:"subtotal"`
	Identifier        *Text        `json:"identifier,omitempty"`
	CustomerName      Text         `json:"customerName,omitempty"`
	MainIdentifier    Text         `json:"mainIdentifier,omitempty"`
	NumberOfCustomers *Number      `json:"numberOfCustomers,omitempty"`
	Checkpad          *CheckpadRef `json:"checkpad"`
	Author            *Author      `json:"author,omitempty"`
}

// NewOrdersheet is the body of POST /ordersheets.
type NewOrdersheet struct {
	Contact           *string      `json:"contact,omitempty"`
	HasOrder          int          `json:"hasOrder"`
	IdleTime          int          `json:"idleTime"`
	Subtotal          int64        `json:"subtotal"`
	Identifier        *string      `json:"identifier"`
	MainIdentifier    string       `json:"mainIdentifier"`
	CustomerName      string       `json:"customerName"`
	NumberOfCustomers int          `json:"numberOfCustomers"`
	Checkpad          *CheckpadRef `json:"checkpad"`
}

// OrdersheetPatch is a partial body for PATCH /ordersheets/{id}. Nil fields are left untouched.
type OrdersheetPatch struct {
	Subtotal          *int64  `json:"subtotal,omitempty"`
	CustomerName      *string `json:"customerName,omitempty"`
	Contact           *string `json:"contact,omitempty"`
	NumberOfCustomers *int    `json:"numberOfCustomers,omitempty"`
}

// CheckpadPatch is a partial body for PATCH /checkpads/{id}. Nil fields are left untouched.
type CheckpadPatch struct {
	Activity           *string  `json:"activity,omitempty"`
	AuthorName         *string  `json:"authorName,omitempty"`
	IdleTime           *int     `json:"idleTime,omitempty"`
	Subtotal           *int64   `json:"subtotal,omitempty"`
	HasOrder           *int     `json:"hasOrder,omitempty"`
	OrderSheetIDs      []FlexID `json:"orderSheetIds,omitempty"`
	CustomerIdentifier *string  `json:"customerIdentifier,omitempty"`
	NumberOfCustomers  *int     `json:"numberOfCustomers,omitempty"`
	LastOrderCreated   *string  `json:"lastOrderCreated,omitempty"`
}

// CheckpadModel is one table model served by an area.
type CheckpadModel struct {
	ID   FlexID `json:"id"`
	Icon Text   `json:"icon,omitempty"`
	Name Text   `json:"name"`
}

// Area is an area definition from GET /areas. It is display metadata plus the idle threshold.
type Area struct {
	ID                 FlexID          `json:"id"`
	Name               Text            `json:"name"`
	SheetLabel         Text            `json:"sheetLabel,omitempty"`
	SheetLabelPlural   Text            `json:"sheetLabelPlural,omitempty"`
	Description        Text            `json:"description,omitempty"`
	MaxIdleTime        *Number         `json:"maxIdleTime,omitempty"`
	MaxIdleTimeEnabled Flag            `json:"maxIdleTimeEnabled"`
	ServiceModel       Text            `json:"serviceModel,omitempty"`
	OperationType      Text            `json:"operationType,omitempty"`
	CheckpadModels     []CheckpadModel `json:"checkpadModels,omitempty"`
	CheckpadQuantity   *Number         `json:"checkpadQuantity,omitempty"`
}

// Comanda is the legacy tab record served at /comandas when the primary resources are unreachable.
// The field names are the legacy wire contract.
type Comanda struct {
	ID            string   `json:"id,omitempty"`
	Customer      string   `json:"cliente,omitempty"`
	Phone         string   `json:"telefone,omitempty"`
	TableID       *int     `json:"mesaId,omitempty"`
	Area          string   `json:"area,omitempty"`
	IdleMinutes   *int     `json:"tempoMin,omitempty"`
	Total         *float64 `json:"total,omitempty"`
	CustomerCount *int     `json:"qtdClientes,omitempty"`
	Attendant     string   `json:"atendente,omitempty"`
}

// ComandaPatch is a partial body for PATCH /comandas/{id}.
type ComandaPatch struct {
	Customer      *string  `json:"cliente,omitempty"`
	Phone         *string  `json:"telefone,omitempty"`
	Total         *float64 `json:"total,omitempty"`
	CustomerCount *int     `json:"qtdClientes,omitempty"`
}
