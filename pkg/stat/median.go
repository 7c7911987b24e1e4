package stat

import (
	"sort"

	"github.com/BTBurke/vecstat/pkg/vector"
)

// Median is the middle value of a sorted copy of one series, ignoring
// missing entries; for an even count it is the average of the two middle
// values.
type Median struct {
	single
	value float64
	err   error
}

// NewMedian returns the median node for src, constructing it on first
// request and returning the same node on every subsequent one.
func NewMedian(src vector.Source) *Median {
	in := vector.Resolve(src)
	key := vector.DerivedKey{Kind: string(KindMedian)}
	if n, ok := in.Derived(key); ok {
		return n.(*Median)
	}
	m := &Median{single: newSingle(KindMedian, in)}
	in.Observe(m)
	in.Register(key, m)
	return m
}

// Query returns the median, recomputing first if any input changed since
// the last read.
func (m *Median) Query() (float64, error) {
	if m.dirty {
		m.recompute()
	}
	return m.value, m.err
}

// Scalar returns the median as a single number.
func (m *Median) Scalar() (float64, error) {
	return m.Query()
}

func (m *Median) recompute() {
	obs := m.in.Present()
	m.value, m.err = 0, nil
	if len(obs) == 0 {
		m.err = DegenerateError{Kind: KindMedian, Reason: "no observations"}
	} else {
		sorted := append([]float64{}, obs...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			m.value = (sorted[mid-1] + sorted[mid]) / 2
		} else {
			m.value = sorted[mid]
		}
	}
	m.done(m.in.Config(), m.value, m.err)
}
