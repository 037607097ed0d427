package wishlist

import (
	"testing"

	"velore/models"
	"velore/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int) models.Product {
	return models.Product{ID: id, Name: "p", Brand: "b", Price: 100}
}

func TestAddIsIdempotentPerProduct(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())

	require.NoError(t, e.AddToWishlist(product(1)))
	require.NoError(t, e.AddToWishlist(product(1)))
	require.NoError(t, e.AddToWishlist(product(2)))

	assert.Equal(t, 2, e.WishlistCount())
	assert.True(t, e.IsInWishlist(1))
	assert.True(t, e.IsInWishlist(2))
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())
	require.NoError(t, e.AddToWishlist(product(1)))

	// absent product: toggle twice ends absent
	require.NoError(t, e.ToggleWishlist(product(2)))
	require.NoError(t, e.ToggleWishlist(product(2)))
	assert.False(t, e.IsInWishlist(2))

	// present product: toggle twice ends present
	require.NoError(t, e.ToggleWishlist(product(1)))
	require.NoError(t, e.ToggleWishlist(product(1)))
	assert.True(t, e.IsInWishlist(1))
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())
	require.NoError(t, e.AddToWishlist(product(1)))

	require.NoError(t, e.RemoveFromWishlist(42))
	assert.Equal(t, 1, e.WishlistCount())
}

func TestEntriesAreSnapshotsNotReferences(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())
	p := models.Product{ID: 1, Name: "Silk Scarf", Price: 900}
	require.NoError(t, e.AddToWishlist(p))

	// later catalog change must not propagate into the saved entry
	p.Price = 1200
	p.Name = "Renamed"

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Silk Scarf", items[0].Name)
	assert.Equal(t, float64(900), items[0].Price)
}

func TestRehydrationRoundTrip(t *testing.T) {
	sub := persist.NewMemSubstrate()
	e := NewEngine(sub)
	require.NoError(t, e.AddToWishlist(product(3)))
	require.NoError(t, e.AddToWishlist(product(1)))

	e2 := NewEngine(sub)
	assert.Equal(t, e.Items(), e2.Items())
}

func TestRehydrationClearsCorruptBlob(t *testing.T) {
	sub := persist.NewMemSubstrate()
	require.NoError(t, sub.Set(persist.KeyWishlist, `{"oops":true}`))

	e := NewEngine(sub)
	assert.Zero(t, e.WishlistCount())

	_, present, _ := sub.Get(persist.KeyWishlist)
	assert.False(t, present)
}

func TestClearPersistsEmptyState(t *testing.T) {
	sub := persist.NewMemSubstrate()
	e := NewEngine(sub)
	require.NoError(t, e.AddToWishlist(product(1)))

	require.NoError(t, e.ClearWishlist())

	e2 := NewEngine(sub)
	assert.Zero(t, e2.WishlistCount())
}
