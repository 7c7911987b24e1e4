// Package stat implements descriptive statistics as lazily cached nodes
// over vectors.  Each node holds references to its inputs (one or two
// series, or other nodes: variance holds a mean, stddev holds a variance)
// and a cached result guarded by a dirty flag.  Constructing the same
// statistic twice for the same input identity returns the same node, so
// sibling statistics share work: reading a stddev recomputes the underlying
// mean at most once no matter how many nodes depend on it.
package stat

import (
	"fmt"

	"github.com/BTBurke/vecstat/pkg/conf"
	"github.com/BTBurke/vecstat/pkg/vector"
)

// Kind identifies a statistic and keys its registry entries.
type Kind string

const (
	KindMean           Kind = "mean"
	KindMedian         Kind = "median"
	KindMode           Kind = "mode"
	KindVariance       Kind = "variance"
	KindStdDev         Kind = "stddev"
	KindCovariance     Kind = "covariance"
	KindCorrelation    Kind = "correlation"
	KindLeastSquareFit Kind = "lsf"
)

var _ Node = &Mean{}
var _ Node = &Median{}
var _ Node = &Mode{}
var _ Node = &Variance{}
var _ Node = &StdDev{}
var _ Node = &Covariance{}
var _ Node = &Correlation{}
var _ Node = &LeastSquareFit{}

// Node is implemented by every derived statistic.
type Node interface {
	// Kind identifies the statistic.
	Kind() Kind
	// Name identifies the node and its inputs, e.g. variance[src=v3].
	Name() string
	// Scalar returns the statistic as a single number.  Multimodal mode
	// results and least-squares fits are not scalars and return
	// NotScalarError.
	Scalar() (float64, error)
	// Invalidate marks the cached result stale; the next read recomputes.
	Invalidate()
	// Recomputes returns how many times the node has recomputed.
	Recomputes() int
}

// node is the cache lifecycle shared by all statistics: a dirty flag that
// starts set, invalidation fan-out to dependent nodes, and a recompute
// counter.
type node struct {
	kind       Kind
	name       string
	dirty      bool
	recomputes int
	dependents []vector.Dependent
}

func newNode(kind Kind, name string) node {
	return node{kind: kind, name: name, dirty: true}
}

// Kind identifies the statistic.
func (n *node) Kind() Kind {
	return n.kind
}

// Name identifies the node and its inputs.
func (n *node) Name() string {
	return n.name
}

// Recomputes returns how many times the node has recomputed.
func (n *node) Recomputes() int {
	return n.recomputes
}

// Invalidate marks the node and everything derived from it stale.  An
// already-stale node short-circuits, so each node in the graph is visited
// at most once per mutation.
func (n *node) Invalidate() {
	if n.dirty {
		return
	}
	n.dirty = true
	for _, d := range n.dependents {
		d.Invalidate()
	}
}

func (n *node) observe(d vector.Dependent) {
	for _, existing := range n.dependents {
		if existing == d {
			return
		}
	}
	n.dependents = append(n.dependents, d)
}

// done records a finished recompute and emits the debug trace.
func (n *node) done(cfg *conf.Config, value float64, err error) {
	n.recomputes++
	n.dirty = false
	ev := cfg.Logger.Debug().Str("node", n.name).Int("recomputes", n.recomputes)
	if err != nil {
		ev.Err(err).Msg("recompute failed")
		return
	}
	ev.Float64("value", value).Msg("recompute")
}

// single is the base for statistics of one series.  The mutation methods
// exist for ergonomic chaining and only forward to the underlying vector;
// a computed view input yields ReadOnlyError.
type single struct {
	node
	in vector.Series
}

func newSingle(kind Kind, in vector.Series) single {
	return single{node: newNode(kind, singleName(kind, in)), in: in}
}

// Input returns the series this statistic is computed over.
func (s *single) Input() vector.Series {
	return s.in
}

// Insert forwards to Vector.Insert on the underlying vector.
func (s *single) Insert(vs ...vector.Value) error {
	mu, ok := s.in.(vector.Mutable)
	if !ok {
		return vector.ReadOnlyError{}
	}
	mu.Insert(vs...)
	return nil
}

// Append forwards to Vector.Append on the underlying vector.
func (s *single) Append(vs ...vector.Value) error {
	mu, ok := s.in.(vector.Mutable)
	if !ok {
		return vector.ReadOnlyError{}
	}
	mu.Append(vs...)
	return nil
}

// SetSize forwards to Vector.SetSize on the underlying vector.
func (s *single) SetSize(n int) error {
	mu, ok := s.in.(vector.Mutable)
	if !ok {
		return vector.ReadOnlyError{}
	}
	return mu.SetSize(n)
}

// SetVector forwards to Vector.SetVector on the underlying vector.
func (s *single) SetVector(src vector.Source) error {
	mu, ok := s.in.(vector.Mutable)
	if !ok {
		return vector.ReadOnlyError{}
	}
	return mu.SetVector(src)
}

func singleName(kind Kind, in vector.Series) string {
	return fmt.Sprintf("%s[src=v%d]", kind, in.ID())
}

func pairName(kind Kind, x, y vector.Series) string {
	return fmt.Sprintf("%s[x=v%d y=v%d]", kind, x.ID(), y.ID())
}

// Equal reports whether two statistics currently evaluate to the same
// scalar under the configured tolerance.  Either side failing to produce a
// scalar returns that error.
func Equal(a, b Node, cfg *conf.Config) (bool, error) {
	av, err := a.Scalar()
	if err != nil {
		return false, err
	}
	bv, err := b.Scalar()
	if err != nil {
		return false, err
	}
	return cfg.Close(av, bv), nil
}

// divisor returns N for population statistics or N-1 with bias correction.
func divisor(n int, cfg *conf.Config) float64 {
	if cfg.BiasCorrection {
		return float64(n - 1)
	}
	return float64(n)
}
