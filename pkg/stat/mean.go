package stat

import "github.com/BTBurke/vecstat/pkg/vector"

// Mean is the arithmetic mean of one series, ignoring missing entries.
type Mean struct {
	single
	value float64
	err   error
}

// NewMean returns the mean node for src, constructing it on first request
// and returning the same node on every subsequent one.
func NewMean(src vector.Source) *Mean {
	in := vector.Resolve(src)
	key := vector.DerivedKey{Kind: string(KindMean)}
	if n, ok := in.Derived(key); ok {
		return n.(*Mean)
	}
	m := &Mean{single: newSingle(KindMean, in)}
	in.Observe(m)
	in.Register(key, m)
	return m
}

// Query returns the mean, recomputing first if any input changed since the
// last read.
func (m *Mean) Query() (float64, error) {
	if m.dirty {
		m.recompute()
	}
	return m.value, m.err
}

// Scalar returns the mean as a single number.
func (m *Mean) Scalar() (float64, error) {
	return m.Query()
}

func (m *Mean) recompute() {
	obs := m.in.Present()
	m.value, m.err = 0, nil
	if len(obs) == 0 {
		m.err = DegenerateError{Kind: KindMean, Reason: "no observations"}
	} else {
		m.value = mean(obs)
	}
	m.done(m.in.Config(), m.value, m.err)
}

func mean(obs []float64) float64 {
	s := 0.0
	for _, o := range obs {
		s += o
	}
	return s / float64(len(obs))
}
