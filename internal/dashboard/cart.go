package dashboard

import (
	"github.com/shopspring/decimal"

	"tradepro/internal/repo"
)

// CartLine is a product and the quantity requested.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart accumulates quantities per product in insertion order. The zero value is empty and ready to use.
type Cart struct {
	order []string
	qty   map[string]int
}

// Add adds qty to the product's line. A line that drops to zero or below is removed.
func (c *Cart) Add(productID string, qty int) {
	if c.qty == nil {
		c.qty = make(map[string]int)
	}
	cur, exists := c.qty[productID]
	next := cur + qty
	if next <= 0 {
		c.Remove(productID)
		return
	}
	if !exists {
		c.order = append(c.order, productID)
	}
	c.qty[productID] = next
}

func (c *Cart) Remove(productID string) {
	if _, ok := c.qty[productID]; !ok {
		return
	}
	delete(c.qty, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.order = nil
	c.qty = nil
}

func (c *Cart) Len() int {
	return len(c.order)
}

// Lines returns a snapshot of the cart.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, CartLine{ProductID: id, Quantity: c.qty[id]})
	}
	return lines
}

// Total prices the cart against products. Unknown products count as zero.
func (c *Cart) Total(products []repo.Product) decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	total := decimal.Zero
	for _, line := range c.Lines() {
		if price, ok := prices[line.ProductID]; ok {
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	return total
}
