package cart

import (
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/shopspring/decimal"
)

// Line is one (product, size) entry. Display fields are copied at add time
// and may be stale.
type Line struct {
	ProductID string          `json:"productId"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
	Size      models.Size     `json:"size"`
	Quantity  int             `json:"quantity"`
}

func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines, insertion order preserved.
type Cart struct {
	Lines []Line `json:"items"`
}

func (c *Cart) find(productID string, size models.Size) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Size == size {
			return i
		}
	}
	return -1
}

// AddItem adds quantity units of product in size, merging with an existing line.
func (c *Cart) AddItem(p models.Product, size models.Size, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.find(p.ID, size); i >= 0 {
		c.Lines[i].Quantity += quantity
		return
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Slug:      p.Slug,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Images:    append([]string(nil), p.Images...),
		Size:      size,
		Quantity:  quantity,
	})
}

// RemoveItem drops the line and reports whether it existed.
func (c *Cart) RemoveItem(productID string, size models.Size) bool {
	i := c.find(productID, size)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(productID string, size models.Size, quantity int) bool {
	i := c.find(productID, size)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return true
	}
	c.Lines[i].Quantity = quantity
	return true
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Quote prices the cart under policy.
func (c *Cart) Quote(policy ShippingPolicy) Quote {
	if len(c.Lines) == 0 {
		return Quote{Subtotal: decimal.Zero, Shipping: decimal.Zero, Total: decimal.Zero}
	}
	q := policy.Quote(c.Subtotal())
	q.ItemCount = c.ItemCount()
	return q
}
