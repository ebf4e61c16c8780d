package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
)

type CartItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart is an ordered list of products with quantities. Items keep the
// position they were first added at.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add increments the product's quantity, or appends it with quantity 1.
func (c *Cart) Add(p models.Product) {
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
}

// Decrease lowers the quantity by one and drops the item at zero.
func (c *Cart) Decrease(id string) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.Product.ID.Hex() == id {
			it.Quantity--
		}
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	c.Items = out
}

func (c *Cart) Remove(id string) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.Product.ID.Hex() != id {
			out = append(out, it)
		}
	}
	c.Items = out
}

func (c *Cart) Clear() { c.Items = nil }

func (c *Cart) TotalPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func (c *Cart) TotalQuantity() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
