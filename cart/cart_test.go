package cart

import (
	"context"
	"testing"
	"time"

	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) models.Product {
	return models.Product{
		ID:     id,
		Slug:   "slug-" + id,
		Name:   "Product " + id,
		Price:  decimal.NewFromInt(price),
		Sizes:  models.StringList{"S", "M", "L"},
		Images: models.StringList{id + ".jpg"},
	}
}

var policy = NewShippingPolicy(99, 2500)

func TestQuoteFreeShippingAtThreshold(t *testing.T) {
	var c Cart
	c.AddItem(product("p1", 2499), models.SizeM, 2)

	q := c.Quote(policy)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(4998)))
	assert.True(t, q.Shipping.IsZero())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(4998)))
	assert.Equal(t, 2, q.ItemCount)
}

func TestQuoteFlatFeeBelowThreshold(t *testing.T) {
	var c Cart
	c.AddItem(product("p1", 999), models.SizeS, 1)

	q := c.Quote(policy)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(999)))
	assert.True(t, q.Shipping.Equal(decimal.NewFromInt(99)))
	assert.True(t, q.Total.Equal(decimal.NewFromInt(1098)))
}

func TestQuoteThresholdIsInclusive(t *testing.T) {
	q := policy.Quote(decimal.NewFromInt(2500))
	assert.True(t, q.Shipping.IsZero())
}

func TestQuoteEmptyCart(t *testing.T) {
	var c Cart
	q := c.Quote(policy)
	assert.True(t, q.Total.IsZero())
}

func TestAddItemMergesSameProductAndSize(t *testing.T) {
	var c Cart
	p := product("p1", 1299)
	c.AddItem(p, models.SizeM, 1)
	c.AddItem(p, models.SizeM, 1)
	c.AddItem(p, models.SizeL, 1)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, models.SizeL, c.Lines[1].Size)
}

func TestAddItemSnapshotsDisplayFields(t *testing.T) {
	var c Cart
	p := product("p1", 1299)
	c.AddItem(p, models.SizeM, 1)

	p.Price = decimal.NewFromInt(1999)
	p.Images[0] = "changed.jpg"

	assert.True(t, c.Lines[0].Price.Equal(decimal.NewFromInt(1299)))
	assert.Equal(t, "p1.jpg", c.Lines[0].Images[0])
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	var c Cart
	c.AddItem(product("p1", 100), models.SizeM, 3)
	c.AddItem(product("p2", 100), models.SizeM, 1)

	assert.True(t, c.UpdateQuantity("p1", models.SizeM, 5))
	assert.Equal(t, 5, c.Lines[0].Quantity)

	assert.True(t, c.UpdateQuantity("p1", models.SizeM, 0))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "p2", c.Lines[0].ProductID)

	assert.False(t, c.UpdateQuantity("p1", models.SizeM, 2))
}

func TestRemoveItemMatchesSize(t *testing.T) {
	var c Cart
	c.AddItem(product("p1", 100), models.SizeM, 1)

	assert.False(t, c.RemoveItem("p1", models.SizeL))
	assert.True(t, c.RemoveItem("p1", models.SizeM))
	assert.Empty(t, c.Lines)
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	var w Wishlist
	now := time.Now()
	w.Add(product("p1", 100), now)
	w.Add(product("p1", 100), now.Add(time.Minute))

	require.Len(t, w.Items, 1)
	assert.True(t, w.Contains("p1"))
	assert.True(t, w.Remove("p1"))
	assert.False(t, w.Contains("p1"))
}

func TestRecentlyViewedMovesToFrontAndCaps(t *testing.T) {
	var r RecentlyViewed
	now := time.Now()
	for i := 0; i < 12; i++ {
		r.Add(product(string(rune('a'+i)), 100), now)
	}
	require.Len(t, r.Items, MaxRecentlyViewed)
	assert.Equal(t, "l", r.Items[0].ProductID)

	r.Add(product("e", 100), now)
	require.Len(t, r.Items, MaxRecentlyViewed)
	assert.Equal(t, "e", r.Items[0].ProductID)
	seen := 0
	for _, it := range r.Items {
		if it.ProductID == "e" {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestMemoryPersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()

	s, err := p.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, s.Cart.Lines)

	s.Cart.AddItem(product("p1", 999), models.SizeS, 1)
	require.NoError(t, p.Save(ctx, s))

	s.Cart.Clear()

	loaded, err := p.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Cart.Lines, 1)
	assert.True(t, loaded.Cart.Lines[0].Price.Equal(decimal.NewFromInt(999)))

	require.NoError(t, p.Delete(ctx, "sess-1"))
	loaded, err = p.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Cart.Lines)
}
