package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BTBurke/vecstat/pkg/conf"
)

func TestInsertSlidesFixedWindow(t *testing.T) {
	tt := []struct {
		name string
		init []float64
		ins  [][]float64
		exp  []float64
	}{
		{name: "one", init: []float64{1, 2, 3}, ins: [][]float64{{4}}, exp: []float64{2, 3, 4}},
		{name: "two in sequence", init: []float64{1, 2, 3}, ins: [][]float64{{4}, {7}}, exp: []float64{3, 4, 7}},
		{name: "batch", init: []float64{1, 2, 3}, ins: [][]float64{{4, 5}}, exp: []float64{3, 4, 5}},
		{name: "overfill", init: []float64{1, 2, 3}, ins: [][]float64{{4, 5, 6, 7}}, exp: []float64{5, 6, 7}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v, err := New(Nums(tc.init...))
			require.NoError(t, err)
			for _, ins := range tc.ins {
				v.Insert(Nums(ins...)...)
			}
			assert.Equal(t, Nums(tc.exp...), v.Query())
			assert.Equal(t, len(tc.init), v.Size())
		})
	}
}

func TestInsertGrowable(t *testing.T) {
	v, err := New(Nums(1, 2, 3), Growable())
	require.NoError(t, err)
	v.Insert(Num(4))
	assert.Equal(t, Nums(1, 2, 3, 4), v.Query())
}

func TestAppendAlwaysGrows(t *testing.T) {
	v, err := New(Nums(1, 2, 3))
	require.NoError(t, err)
	v.Append(Nums(4, 5, 6)...)
	assert.Equal(t, Nums(1, 2, 3, 4, 5, 6), v.Query())
	assert.Equal(t, 6, v.Size())

	// the window is now the new length
	v.Insert(Num(7))
	assert.Equal(t, Nums(2, 3, 4, 5, 6, 7), v.Query())
}

func TestSetSize(t *testing.T) {
	fill, err := conf.New(conf.ZeroFill())
	require.NoError(t, err)
	nofill, err := conf.New(conf.NoFill())
	require.NoError(t, err)

	tt := []struct {
		name string
		cfg  *conf.Config
		init []float64
		n    int
		exp  []Value
	}{
		{name: "grow zero fill", cfg: fill, init: []float64{1, 2, 3}, n: 7, exp: Nums(0, 0, 0, 0, 1, 2, 3)},
		{name: "grow no fill", cfg: nofill, init: []float64{1, 2, 3}, n: 5, exp: []Value{NA(), NA(), Num(1), Num(2), Num(3)}},
		{name: "shrink truncates head", cfg: fill, init: []float64{1, 2, 3, 4}, n: 2, exp: Nums(3, 4)},
		{name: "same size", cfg: fill, init: []float64{1, 2}, n: 2, exp: Nums(1, 2)},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v, err := New(Nums(tc.init...), WithConfig(tc.cfg))
			require.NoError(t, err)
			require.NoError(t, v.SetSize(tc.n))
			assert.Equal(t, tc.exp, v.Query())
		})
	}
}

func TestSetSizeInvalid(t *testing.T) {
	v, err := New(Nums(1, 2, 3))
	require.NoError(t, err)
	err = v.SetSize(0)
	assert.Error(t, err)
	assert.IsType(t, InvalidSizeError{}, err)
	assert.Equal(t, 3, v.Size())
}

func TestFixedOption(t *testing.T) {
	cfg, err := conf.New(conf.ZeroFill())
	require.NoError(t, err)
	v, err := New(Nums(1, 2, 3), WithConfig(cfg), Fixed(5))
	require.NoError(t, err)
	assert.Equal(t, Nums(0, 0, 1, 2, 3), v.Query())

	_, err = New(Nums(1), Fixed(0))
	assert.Error(t, err)
}

func TestSetVector(t *testing.T) {
	v, err := New(Nums(1, 2, 3))
	require.NoError(t, err)
	require.NoError(t, v.SetVector(Values{9, 8}))
	assert.Equal(t, Nums(9, 8), v.Query())
	assert.Error(t, v.SetVector(nil))
}

func TestSetVectorCopiesContents(t *testing.T) {
	w, err := New(Nums(1, 2, 3), Growable())
	require.NoError(t, err)
	w.Append(Num(4))

	v, err := New(Nums(0, 0, 0, 0))
	require.NoError(t, err)
	require.NoError(t, v.SetVector(w))
	r := &recorder{}
	v.Observe(r)

	v.Insert(Num(100))
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, Nums(2, 3, 4, 100), v.Query())

	// the donor's spare capacity must never back the adoptee's window
	w.Append(Num(5))
	assert.Equal(t, Nums(2, 3, 4, 100), v.Query())
	assert.Equal(t, 1, r.calls)

	v.Insert(Num(200))
	assert.Equal(t, Nums(1, 2, 3, 4, 5), w.Query())
}

func TestEmptyDefaultsToGrowable(t *testing.T) {
	v, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Size())

	v.Insert(Num(1), Num(2))
	assert.Equal(t, Nums(1, 2), v.Query())

	// an explicit window keeps fixed semantics even when created empty
	f, err := New(nil, Fixed(2))
	require.NoError(t, err)
	f.Insert(Num(1), Num(2), Num(3))
	assert.Equal(t, 2, f.Size())
}

func TestPresentSkipsMissing(t *testing.T) {
	v, err := New([]Value{Num(1), NA(), Num(3)})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, v.Present())
	assert.Equal(t, 3, v.Size())
}

func TestCopyBreaksIdentity(t *testing.T) {
	v, err := New(Nums(1, 2, 3))
	require.NoError(t, err)
	c := v.Copy()
	assert.NotEqual(t, v.ID(), c.ID())
	assert.Equal(t, v.Query(), c.Query())

	c.Insert(Num(4))
	assert.Equal(t, Nums(1, 2, 3), v.Query())
}

func TestResolveIdentityReuse(t *testing.T) {
	v, err := New(Nums(1, 2, 3))
	require.NoError(t, err)
	s := Resolve(v)
	assert.Same(t, v, s)

	raw := Resolve(Values{1, 2})
	assert.Equal(t, 2, raw.Size())
}

type recorder struct {
	calls int
}

func (r *recorder) Invalidate() {
	r.calls++
}

func TestMutationNotifiesDependents(t *testing.T) {
	v, err := New(Nums(1, 2, 3))
	require.NoError(t, err)
	r := &recorder{}
	v.Observe(r)
	v.Observe(r) // duplicate registration folds into one

	v.Insert(Num(4))
	assert.Equal(t, 1, r.calls)
	require.NoError(t, v.SetSize(5))
	assert.Equal(t, 2, r.calls)
	v.Append(Num(6))
	assert.Equal(t, 3, r.calls)
}
