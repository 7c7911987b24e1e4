package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BTBurke/vecstat/pkg/conf"
	"github.com/BTBurke/vecstat/pkg/vector"
)

func population(t *testing.T) *conf.Config {
	t.Helper()
	cfg, err := conf.New(conf.Population())
	require.NoError(t, err)
	return cfg
}

func newUnbias(t *testing.T) *conf.Config {
	t.Helper()
	cfg, err := conf.New(conf.Unbias())
	require.NoError(t, err)
	return cfg
}

func newVector(t *testing.T, cfg *conf.Config, values ...float64) *vector.Vector {
	t.Helper()
	v, err := vector.New(vector.Nums(values...), vector.WithConfig(cfg))
	require.NoError(t, err)
	return v
}

func TestPopulationStatistics(t *testing.T) {
	v := newVector(t, population(t), 1, 2, 3)

	m, err := NewMean(v).Query()
	require.NoError(t, err)
	assert.Equal(t, 2.0, m)

	vv, err := NewVariance(v).Query()
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, vv, 1e-9)

	sd, err := NewStdDev(v).Query()
	require.NoError(t, err)
	assert.InDelta(t, 0.8165, sd, 1e-4)
}

func TestSampleStatistics(t *testing.T) {
	cfg, err := conf.New(conf.Unbias())
	require.NoError(t, err)
	v := newVector(t, cfg, 1, 2, 3)

	vv, err := NewVariance(v).Query()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vv, 1e-9)
}

func TestMedian(t *testing.T) {
	tt := []struct {
		name string
		obs  []float64
		exp  float64
	}{
		{name: "odd", obs: []float64{5, 1, 3}, exp: 3},
		{name: "even", obs: []float64{4, 1, 3, 2}, exp: 2.5},
		{name: "single", obs: []float64{7}, exp: 7},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v := newVector(t, population(t), tc.obs...)
			med, err := NewMedian(v).Query()
			require.NoError(t, err)
			assert.Equal(t, tc.exp, med)
		})
	}
}

func TestMissingEntriesIgnored(t *testing.T) {
	cfg := population(t)
	v, err := vector.New([]vector.Value{vector.Num(1), vector.NA(), vector.Num(3)}, vector.WithConfig(cfg))
	require.NoError(t, err)

	m, err := NewMean(v).Query()
	require.NoError(t, err)
	assert.Equal(t, 2.0, m)
}

func TestDegenerateStatistics(t *testing.T) {
	cfg := population(t)

	t.Run("mean of empty", func(t *testing.T) {
		v, err := vector.New(nil, vector.Growable(), vector.WithConfig(cfg))
		require.NoError(t, err)
		_, err = NewMean(v).Query()
		assert.IsType(t, DegenerateError{}, err)
	})

	t.Run("sample variance of one observation", func(t *testing.T) {
		unbias, err := conf.New(conf.Unbias())
		require.NoError(t, err)
		v := newVector(t, unbias, 5)
		_, err = NewVariance(v).Query()
		assert.IsType(t, DegenerateError{}, err)
	})

	t.Run("stddev propagates variance degeneracy", func(t *testing.T) {
		unbias, err := conf.New(conf.Unbias())
		require.NoError(t, err)
		v := newVector(t, unbias, 5)
		sd := NewStdDev(v)
		_, err = sd.Query()
		assert.IsType(t, DegenerateError{}, err)

		// re-surfaces on every read until the input changes
		_, err = sd.Query()
		assert.IsType(t, DegenerateError{}, err)
		require.NoError(t, sd.Append(vector.Num(7)))
		_, err = sd.Query()
		assert.NoError(t, err)
	})
}

func TestIdentityReuse(t *testing.T) {
	v := newVector(t, population(t), 1, 2, 3)

	assert.Same(t, NewMean(v), NewMean(v))
	assert.Same(t, NewMean(v), NewVariance(v).Mean())
	assert.Same(t, NewVariance(v), NewStdDev(v).Variance())
	assert.Same(t, NewMedian(v), NewMedian(v))
	assert.Same(t, NewMode(v), NewMode(v))
}

func TestNoIdentityAcrossCopies(t *testing.T) {
	v := newVector(t, population(t), 1, 2, 3)
	c := v.Copy()
	assert.NotSame(t, NewMean(v), NewMean(c))
}

func TestSharedMeanRecomputesOnce(t *testing.T) {
	v := newVector(t, population(t), 1, 2, 3)
	m := NewMean(v)
	sd := NewStdDev(v)

	_, err := sd.Query()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Recomputes())

	// reading the shared mean afterwards hits the cache
	_, err = m.Query()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Recomputes())
}

func TestDirtyPropagationAfterMutation(t *testing.T) {
	v := newVector(t, population(t), 1, 2, 3)
	sd := NewStdDev(v)

	first, err := sd.Query()
	require.NoError(t, err)
	assert.Equal(t, 1, sd.Recomputes())

	v.Insert(vector.Num(10))
	second, err := sd.Query()
	require.NoError(t, err)
	assert.Equal(t, 2, sd.Recomputes())
	assert.NotEqual(t, first, second)

	// repeated mutation before a read still costs one recompute
	v.Insert(vector.Num(11))
	v.Insert(vector.Num(12))
	_, err = sd.Query()
	require.NoError(t, err)
	assert.Equal(t, 3, sd.Recomputes())
}

func TestDelegatedMutation(t *testing.T) {
	v := newVector(t, population(t), 1, 2, 3)
	m := NewMean(v)

	require.NoError(t, m.Insert(vector.Num(4)))
	got, err := m.Query()
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	require.NoError(t, m.SetVector(vector.Values{10, 20}))
	got, err = m.Query()
	require.NoError(t, err)
	assert.Equal(t, 15.0, got)

	assert.Error(t, m.SetSize(0))
}

func TestEqualWithTolerance(t *testing.T) {
	exact, err := conf.New(conf.Population())
	require.NoError(t, err)
	loose, err := conf.New(conf.Population(), conf.Tolerance(0.01))
	require.NoError(t, err)

	a := NewMean(newVector(t, exact, 1, 2, 3))
	b := NewMean(newVector(t, exact, 1, 2, 3.001))

	got, err := Equal(a, b, exact)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = Equal(a, b, loose)
	require.NoError(t, err)
	assert.True(t, got)

	fit, err := NewLeastSquareFit(vector.Values{1, 2}, vector.Values{1, 2})
	require.NoError(t, err)
	_, err = Equal(a, fit, exact)
	assert.IsType(t, NotScalarError{}, err)
}

func TestRawValuesBuildAVector(t *testing.T) {
	m := NewMean(vector.Values{2, 4, 6})
	got, err := m.Query()
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
	assert.Equal(t, Kind("mean"), m.Kind())
}

func TestStatisticsOverComputedView(t *testing.T) {
	v := newVector(t, population(t), 1, 2, 3, 100)
	c := vector.NewComputed(v)
	c.SetFilter(func(in []vector.Value) []vector.Value {
		out := make([]vector.Value, 0, len(in))
		for _, val := range in {
			if !val.Missing && val.F < 50 {
				out = append(out, val)
			}
		}
		return out
	})

	m := NewMean(c)
	got, err := m.Query()
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	// mutation of the source flows through the view to the statistic
	v.Insert(vector.Num(5))
	got, err = m.Query()
	require.NoError(t, err)
	assert.InDelta(t, 10.0/3.0, got, 1e-9)

	// the view is read only through the node's chaining methods
	assert.IsType(t, vector.ReadOnlyError{}, m.Insert(vector.Num(1)))
}
