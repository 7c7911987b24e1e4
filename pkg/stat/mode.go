package stat

import (
	"math"

	"github.com/BTBurke/vecstat/pkg/vector"
)

// Mode is the most frequent value of one series.  The candidate is the
// first value to attain the running maximum frequency in encounter order.
// When more than one distinct value ties at the maximum frequency the node
// is multimodal: it cannot be read as a single number, but the full tied
// set is available through Modes.
type Mode struct {
	single
	value      float64
	modes      []float64
	multimodal bool
	err        error
}

// NewMode returns the mode node for src, constructing it on first request
// and returning the same node on every subsequent one.
func NewMode(src vector.Source) *Mode {
	in := vector.Resolve(src)
	key := vector.DerivedKey{Kind: string(KindMode)}
	if n, ok := in.Derived(key); ok {
		return n.(*Mode)
	}
	m := &Mode{single: newSingle(KindMode, in)}
	in.Observe(m)
	in.Register(key, m)
	return m
}

// Query returns the mode, recomputing first if any input changed since the
// last read.  A multimodal result returns NotScalarError.
func (m *Mode) Query() (float64, error) {
	if m.dirty {
		m.recompute()
	}
	return m.value, m.err
}

// Scalar returns the mode as a single number; multimodal results return
// NotScalarError.
func (m *Mode) Scalar() (float64, error) {
	return m.Query()
}

// IsMultimodal reports whether more than one value ties at the maximum
// frequency.
func (m *Mode) IsMultimodal() bool {
	if m.dirty {
		m.recompute()
	}
	return m.multimodal
}

// Modes returns all values tied at the maximum frequency in encounter
// order.  For a unimodal result it holds the single mode.
func (m *Mode) Modes() []float64 {
	if m.dirty {
		m.recompute()
	}
	return append([]float64{}, m.modes...)
}

// Sequence returns the tied values as a growable vector, for callers that
// want to feed the tied set back into the graph.
func (m *Mode) Sequence() *vector.Vector {
	v, _ := vector.New(vector.Nums(m.Modes()...), vector.Growable())
	return v
}

func (m *Mode) recompute() {
	// NaN never compares equal to itself, so it can not participate in a
	// frequency tally; drop it before counting
	obs := make([]float64, 0, m.in.Size())
	for _, o := range m.in.Present() {
		if math.IsNaN(o) {
			continue
		}
		obs = append(obs, o)
	}
	m.value, m.modes, m.multimodal, m.err = 0, nil, false, nil
	if len(obs) == 0 {
		m.err = DegenerateError{Kind: KindMode, Reason: "no observations"}
		m.done(m.in.Config(), m.value, m.err)
		return
	}

	counts := make(map[float64]int, len(obs))
	order := make([]float64, 0, len(obs))
	best := 0
	for _, o := range obs {
		if counts[o] == 0 {
			order = append(order, o)
		}
		counts[o]++
		// only a strictly greater frequency displaces the candidate, so
		// the first value to reach the maximum wins ties
		if counts[o] > best {
			best = counts[o]
			m.value = o
		}
	}
	for _, o := range order {
		if counts[o] == best {
			m.modes = append(m.modes, o)
		}
	}
	m.multimodal = len(m.modes) > 1
	if m.multimodal {
		m.err = NotScalarError{Kind: KindMode}
	}
	m.done(m.in.Config(), m.value, m.err)
}
