package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrNotInCart is returned when an operation names an item the cart does not hold.
var ErrNotInCart = errors.New("item not in cart")

// Line is one product and its quantity.
type Line struct {
	Item     Item `json:"item"`
	Quantity int  `json:"quantity"`
}

// Cart accumulates items for one tab. Quantities never drop below one: decrementing the last unit
// removes the line.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// Add puts one unit of item in the cart.
func (c *Cart) Add(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
}

// Increment adds one unit of an item already in the cart.
func (c *Cart) Increment(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrNotInCart
	}
	c.lines[i].Quantity++
	return nil
}

// Decrement removes one unit, dropping the line when it reaches zero.
func (c *Cart) Decrement(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrNotInCart
	}
	c.lines[i].Quantity--
	if c.lines[i].Quantity <= 0 {
		c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	}
	return nil
}

// Remove drops a line regardless of quantity.
func (c *Cart) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return ErrNotInCart
	}
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line{}, c.lines...)
}

// Subtotal is the sum of price times quantity over every line, in major units.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(decimal.NewFromFloat(l.Item.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			return i
		}
	}
	return -1
}
