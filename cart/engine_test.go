package cart

import (
	"errors"
	"testing"

	"velore/models"
	"velore/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, price float64) models.Product {
	return models.Product{ID: id, Name: "p", Brand: "b", Price: price}
}

func TestAddToCartMergesSameProduct(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())

	require.NoError(t, e.AddToCart(product(1, 2000), 1))
	require.NoError(t, e.AddToCart(product(1, 2000), 1))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, e.CartCount())
}

func TestAddToCartClampsNonPositiveQuantity(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())

	require.NoError(t, e.AddToCart(product(1, 100), -3))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestNoDuplicateIDsAndNoZeroQuantities(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())

	ops := []func() error{
		func() error { return e.AddToCart(product(1, 10), 2) },
		func() error { return e.AddToCart(product(2, 20), 1) },
		func() error { return e.AddToCart(product(1, 10), 3) },
		func() error { return e.UpdateQuantity(2, 5) },
		func() error { return e.RemoveFromCart(3) },
		func() error { return e.AddToCart(product(3, 30), 1) },
		func() error { return e.UpdateQuantity(1, 0) },
	}
	for _, op := range ops {
		require.NoError(t, op())

		seen := map[int]bool{}
		for _, l := range e.Lines() {
			assert.GreaterOrEqual(t, l.Quantity, 1)
			assert.False(t, seen[l.Product.ID], "duplicate product id %d", l.Product.ID)
			seen[l.Product.ID] = true
		}
	}
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, q := range []int{0, -5} {
		e := NewEngine(persist.NewMemSubstrate())
		require.NoError(t, e.AddToCart(product(1, 100), 2))

		require.NoError(t, e.UpdateQuantity(1, q))
		assert.Empty(t, e.Lines())
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())
	require.NoError(t, e.AddToCart(product(1, 100), 2))

	require.NoError(t, e.UpdateQuantity(99, 7))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartTotalMatchesIndependentRecompute(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())
	require.NoError(t, e.AddToCart(product(1, 2000), 2))
	require.NoError(t, e.AddToCart(product(2, 3500), 1))
	require.NoError(t, e.UpdateQuantity(1, 3))

	var want float64
	for _, l := range e.Lines() {
		want += l.Product.Price * float64(l.Quantity)
	}
	assert.Equal(t, want, e.CartTotal())
	assert.Equal(t, float64(3*2000+3500), e.CartTotal())
}

func TestRehydrationRoundTrip(t *testing.T) {
	sub := persist.NewMemSubstrate()

	e := NewEngine(sub)
	require.NoError(t, e.AddToCart(product(1, 2000), 2))
	require.NoError(t, e.AddToCart(product(2, 3500), 1))

	// simulated restart: a fresh engine over the same substrate
	e2 := NewEngine(sub)
	assert.Equal(t, e.Lines(), e2.Lines())
	assert.Equal(t, e.CartTotal(), e2.CartTotal())
}

func TestRehydrationClearsCorruptBlob(t *testing.T) {
	sub := persist.NewMemSubstrate()
	require.NoError(t, sub.Set(persist.KeyCart, `"not an array"`))

	e := NewEngine(sub)
	assert.Empty(t, e.Lines())

	_, present, _ := sub.Get(persist.KeyCart)
	assert.False(t, present, "corrupt key should be cleared on load")
}

func TestRehydrationDropsInvalidLines(t *testing.T) {
	sub := persist.NewMemSubstrate()
	bad := `[{"product":{"id":1,"price":10},"quantity":0},` +
		`{"product":{"id":2,"price":20},"quantity":2},` +
		`{"product":{"id":2,"price":20},"quantity":3}]`
	require.NoError(t, sub.Set(persist.KeyCart, bad))

	e := NewEngine(sub)
	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
}

type rejectingSubstrate struct {
	*persist.MemSubstrate
	fail bool
}

func (r *rejectingSubstrate) Set(key, value string) error {
	if r.fail {
		return errors.New("quota exceeded")
	}
	return r.MemSubstrate.Set(key, value)
}

func TestWriteFailureRollsBackMemoryState(t *testing.T) {
	sub := &rejectingSubstrate{MemSubstrate: persist.NewMemSubstrate()}
	e := NewEngine(sub)
	require.NoError(t, e.AddToCart(product(1, 100), 1))

	sub.fail = true
	err := e.AddToCart(product(2, 200), 1)
	require.Error(t, err)

	var we *persist.WriteError
	require.ErrorAs(t, err, &we)

	// memory matches the last persisted state
	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Product.ID)
}

func TestSubscribeFiresOnCommittedMutations(t *testing.T) {
	e := NewEngine(persist.NewMemSubstrate())
	fired := 0
	e.Subscribe(func() { fired++ })

	require.NoError(t, e.AddToCart(product(1, 100), 1))
	require.NoError(t, e.RemoveFromCart(99)) // no-op: no state change, no notify
	require.NoError(t, e.ClearCart())

	assert.Equal(t, 2, fired)
}
