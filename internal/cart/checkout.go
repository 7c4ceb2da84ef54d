package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"comanda-dashboard-backend/internal/model"
)

// PaymentMethod is recorded on checkout. No payment is processed.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentPix    PaymentMethod = "pix"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCredit PaymentMethod = "credit"
	PaymentOnTab  PaymentMethod = "on-tab"
	PaymentOther  PaymentMethod = "other"
)

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentDebit, PaymentCredit, PaymentOnTab, PaymentOther:
		return true
	}
	return false
}

// ErrEmptyCart is returned when checking out a cart without lines.
var ErrEmptyCart = errors.New("cart is empty")

// TabWriter is the part of the tab store checkout needs.
type TabWriter interface {
	Get(displayKey string) (model.Tab, bool)
	UpdateOne(ctx context.Context, displayKey string, patch model.TabPatch) (model.Tab, error)
}

// Receipt is the outcome of a checkout.
type Receipt struct {
	Tab      model.Tab     `json:"tab"`
	Lines    []Line        `json:"lines"`
	Subtotal float64       `json:"subtotal"`
	Method   PaymentMethod `json:"paymentMethod,omitempty"`
	Tendered float64       `json:"tendered,omitempty"`
	Change   float64       `json:"change"`
}

// Checkout adds the cart subtotal to the tab's total and empties the cart. tendered is the cash
// handed over, used only to compute the change.
func Checkout(ctx context.Context, tabs TabWriter, tabKey string, c *Cart, method PaymentMethod, tendered float64) (Receipt, error) {
	if method != "" && !method.Valid() {
		return Receipt{}, fmt.Errorf("unknown payment method %q", method)
	}
	lines := c.Lines()
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	subtotal := c.Subtotal()

	current := 0.0
	if tab, ok := tabs.Get(tabKey); ok {
		current = tab.TotalValue
	}
	total := decimal.NewFromFloat(current).Add(decimal.NewFromFloat(subtotal)).Round(2).InexactFloat64()

	updated, err := tabs.UpdateOne(ctx, tabKey, model.TabPatch{TotalValue: &total})
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to post order to tab %s: %w", tabKey, err)
	}
	c.Clear()

	change := decimal.NewFromFloat(tendered).Sub(decimal.NewFromFloat(subtotal))
	if change.IsNegative() {
		change = decimal.Zero
	}
	return Receipt{
		Tab:      updated,
		Lines:    lines,
		Subtotal: subtotal,
		Method:   method,
		Tendered: tendered,
		Change:   change.Round(2).InexactFloat64(),
	}, nil
}
