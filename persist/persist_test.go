package persist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingSubstrate struct {
	*MemSubstrate
	setErr error
}

func (f *failingSubstrate) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemSubstrate.Set(key, value)
}

func TestLoadMissingKey(t *testing.T) {
	s := NewMemSubstrate()
	v, ok := Load[[]string](s, "nope")
	require.False(t, ok)
	require.Nil(t, v)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewMemSubstrate()
	type line struct {
		ID  int     `json:"id"`
		Qty int     `json:"qty"`
		P   float64 `json:"p"`
	}
	in := []line{{ID: 1, Qty: 2, P: 2000}, {ID: 2, Qty: 1, P: 3500}}
	require.NoError(t, Save(s, "cart", in))

	out, ok := Load[[]line](s, "cart")
	require.True(t, ok)
	require.Equal(t, in, out)
}

func TestLoadCorruptValueClearsKey(t *testing.T) {
	s := NewMemSubstrate()
	require.NoError(t, s.Set("cart", "{not json"))

	v, ok := Load[[]int](s, "cart")
	require.False(t, ok)
	require.Nil(t, v)

	// the bad key is gone, so the next load does not fail again
	_, present, err := s.Get("cart")
	require.NoError(t, err)
	require.False(t, present)
}

func TestLoadWrongShapeClearsKey(t *testing.T) {
	s := NewMemSubstrate()
	// expected array, stored object
	require.NoError(t, s.Set("wishlist", `{"id":1}`))

	v, ok := Load[[]int](s, "wishlist")
	require.False(t, ok)
	require.Nil(t, v)

	_, present, _ := s.Get("wishlist")
	require.False(t, present)
}

func TestSaveSurfacesWriteError(t *testing.T) {
	boom := errors.New("quota exceeded")
	s := &failingSubstrate{MemSubstrate: NewMemSubstrate(), setErr: boom}

	err := Save(s, "cart", []int{1})
	require.Error(t, err)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	require.Equal(t, "cart", we.Key)
	require.ErrorIs(t, err, boom)
}

func TestRemoveAbsentKeyIsNoop(t *testing.T) {
	s := NewMemSubstrate()
	Remove(s, "never-set") // must not panic or error
}
