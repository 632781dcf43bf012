package cunone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type box[T any] struct {
	items []T
	gets  int
}

func (b *box[T]) Len() int { return len(b.items) }

func (b *box[T]) Get(i int) T {
	b.gets++
	return b.items[i]
}

func (b *box[T]) Set(i int, v T) { b.items[i] = v }

func TestOf(t *testing.T) {
	x, err := Of[float64]([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, x.Kind())

	s, err := Of[string]([]string{"a"})
	require.NoError(t, err)
	assert.Equal(t, KindGeneric, s.Kind())

	a, err := Of[int](&box[int]{items: []int{4, 5}})
	require.NoError(t, err)
	assert.Equal(t, KindAccessor, a.Kind())
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 5, a.At(1))

	same, err := Of[string](s)
	require.NoError(t, err)
	assert.Equal(t, s, same)
}

func TestOfRejects(t *testing.T) {
	for _, x := range []any{nil, 42, []string{"wrong element type"}, map[int]int{}, Array[int]{}} {
		_, err := Of[int](x)
		assert.ErrorIs(t, err, ErrInvalidArray, "%#v", x)
	}
}

func TestAccessorReadOncePerVisit(t *testing.T) {
	b := &box[int]{items: []int{0, 0, 3, 0}}

	out, err := By(FromAccessor[int](b), func(v int, _ int, _ Array[int]) bool {
		return v > 0
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, false}, out)
	assert.Equal(t, 3, b.gets)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "generic", KindGeneric.String())
	assert.Equal(t, "numeric", KindNumeric.String())
	assert.Equal(t, "accessor", KindAccessor.String())
	assert.Equal(t, "invalid", Array[int]{}.Kind().String())
}
