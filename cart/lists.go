package cart

import (
	"time"

	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/shopspring/decimal"
)

// MaxRecentlyViewed caps the recently viewed list.
const MaxRecentlyViewed = 10

type ProductCard struct {
	ProductID string          `json:"productId"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
	At        time.Time       `json:"at"`
}

func cardOf(p models.Product, at time.Time) ProductCard {
	return ProductCard{
		ProductID: p.ID,
		Slug:      p.Slug,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Images:    append([]string(nil), p.Images...),
		At:        at,
	}
}

type Wishlist struct {
	Items []ProductCard `json:"items"`
}

// Add is a no-op when the product is already listed.
func (w *Wishlist) Add(p models.Product, at time.Time) {
	if w.Contains(p.ID) {
		return
	}
	w.Items = append(w.Items, cardOf(p, at))
}

func (w *Wishlist) Remove(productID string) bool {
	for i, it := range w.Items {
		if it.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (w *Wishlist) Contains(productID string) bool {
	for _, it := range w.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Clear() { w.Items = nil }

// RecentlyViewed is most recent first and holds at most MaxRecentlyViewed items.
type RecentlyViewed struct {
	Items []ProductCard `json:"items"`
}

func (r *RecentlyViewed) Add(p models.Product, at time.Time) {
	items := make([]ProductCard, 0, MaxRecentlyViewed)
	items = append(items, cardOf(p, at))
	for _, it := range r.Items {
		if it.ProductID == p.ID {
			continue
		}
		if len(items) == MaxRecentlyViewed {
			break
		}
		items = append(items, it)
	}
	r.Items = items
}

func (r *RecentlyViewed) Clear() { r.Items = nil }
