// Package cart owns the in-progress order of a single terminal session.
// Content only changes through AddItem, SetQuantity and Clear, so the
// uniqueness and quantity invariants hold by construction.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pemafoods/pdv/internal/catalog"
)

type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type Cart struct {
	mu    sync.Mutex
	items []Item // insertion order, codes unique

	onChange func(codes []string) // notified after every mutation
}

func New() *Cart { return &Cart{} }

// OnChange registers the single change listener (the suggestion pipeline).
// It is called with the product codes of the cart after the mutation.
func (c *Cart) OnChange(fn func(codes []string)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// AddItem appends the product with quantity 1, or bumps the quantity if a
// line for the same code already exists.
func (c *Cart) AddItem(p catalog.Product) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].Product.Code == p.Code {
			c.items[i].Quantity++
			c.notifyLocked()
			return
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
	c.notifyLocked()
}

// SetQuantity sets the line for code to n, removing it when n <= 0.
// An unknown code is a no-op: the terminal may race a removal against a
// stale quantity edit, and that must not blow up the session.
func (c *Cart) SetQuantity(code string, n int) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].Product.Code != code {
			continue
		}
		if n <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		} else {
			c.items[i].Quantity = n
		}
		c.notifyLocked()
		return
	}
	c.mu.Unlock()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.notifyLocked()
}

// Total is the exact sum of price*quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Items returns a copy; callers never get a handle on the live slice.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Codes returns the product codes in line order.
func (c *Cart) Codes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codesLocked()
}

func (c *Cart) codesLocked() []string {
	codes := make([]string, len(c.items))
	for i, it := range c.items {
		codes[i] = it.Product.Code
	}
	return codes
}

// notifyLocked releases the lock before invoking the listener so the
// listener may call back into the cart.
func (c *Cart) notifyLocked() {
	fn := c.onChange
	codes := c.codesLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(codes)
	}
}
