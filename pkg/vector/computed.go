package vector

import "github.com/BTBurke/vecstat/pkg/conf"

var _ Series = &Vector{}
var _ Series = &Computed{}
var _ Mutable = &Vector{}
var _ Dependent = &Computed{}

// Transform derives the visible contents of a computed vector from its
// source contents.  It must not retain or mutate the input slice.
type Transform func(in []Value) []Value

// Computed is a read-only view of a source series with a transform applied.
// It recomputes lazily: a query on a stale view pulls fresh contents from
// the source (recomputing the source first if it is itself a stale view),
// applies the transform, and caches the result until the next invalidation.
// Computed implements Series, so statistic nodes consume it exactly as they
// do a plain vector.
type Computed struct {
	id         uint64
	src        Series
	transform  Transform
	cache      []Value
	dirty      bool
	recomputes int
	dependents []Dependent
	derived    map[DerivedKey]interface{}
}

// NewComputed returns a view of src with no transform installed yet; until
// SetFilter is called it mirrors the source contents.
func NewComputed(src Series) *Computed {
	c := &Computed{
		id:      nextID(),
		src:     src,
		dirty:   true,
		derived: make(map[DerivedKey]interface{}),
	}
	src.Observe(c)
	return c
}

// SetFilter installs or replaces the transform and marks the view stale.
func (c *Computed) SetFilter(t Transform) {
	c.transform = t
	c.dirty = true
	for _, d := range c.dependents {
		d.Invalidate()
	}
}

// SetSource repoints the view at a different series and marks it stale.
// Invalidations from the old source still arrive but are harmless: the next
// read recomputes from the new source.
func (c *Computed) SetSource(src Series) {
	c.src = src
	src.Observe(c)
	c.dirty = true
	for _, d := range c.dependents {
		d.Invalidate()
	}
}

// Invalidate marks the view and its dependents stale.  Already-stale views
// short-circuit, so each node is visited at most once per mutation.
func (c *Computed) Invalidate() {
	if c.dirty {
		return
	}
	c.dirty = true
	for _, d := range c.dependents {
		d.Invalidate()
	}
}

// Query returns a copy of the transformed contents, recomputing first if
// the source changed since the last read.
func (c *Computed) Query() []Value {
	c.refresh()
	return append([]Value{}, c.cache...)
}

// Size returns the current transformed length.
func (c *Computed) Size() int {
	c.refresh()
	return len(c.cache)
}

// Present returns the non-missing transformed values in order.
func (c *Computed) Present() []float64 {
	c.refresh()
	out := make([]float64, 0, len(c.cache))
	for _, val := range c.cache {
		if val.Missing {
			continue
		}
		out = append(out, val.F)
	}
	return out
}

// Recomputes returns how many times the transform has been applied.
func (c *Computed) Recomputes() int {
	return c.recomputes
}

// Source returns the series this view derives from.
func (c *Computed) Source() Series {
	return c.src
}

// ID returns the process-unique identity of this view.
func (c *Computed) ID() uint64 {
	return c.id
}

// Observe registers a dependent to be invalidated when this view goes
// stale.
func (c *Computed) Observe(d Dependent) {
	for _, existing := range c.dependents {
		if existing == d {
			return
		}
	}
	c.dependents = append(c.dependents, d)
}

// Derived looks up an already-constructed derived node by key.
func (c *Computed) Derived(key DerivedKey) (interface{}, bool) {
	node, ok := c.derived[key]
	return node, ok
}

// Register records a derived node under key.
func (c *Computed) Register(key DerivedKey, node interface{}) {
	c.derived[key] = node
}

// Config returns the behavior flags of the source.
func (c *Computed) Config() *conf.Config {
	return c.src.Config()
}

func (c *Computed) resolve() Series {
	return c
}

func (c *Computed) refresh() {
	if !c.dirty {
		return
	}
	in := c.src.Query()
	if c.transform == nil {
		c.cache = in
	} else {
		c.cache = c.transform(in)
	}
	c.recomputes++
	c.dirty = false
}

// AlignMissing returns paired views of a and b that drop every position
// where either input is missing, preserving index alignment between the two
// results.  Each view tracks mutation of both inputs.
func AlignMissing(a, b Series) (*Computed, *Computed) {
	ca := NewComputed(a)
	cb := NewComputed(b)
	ca.SetFilter(dropUnpaired(b))
	cb.SetFilter(dropUnpaired(a))
	b.Observe(ca)
	a.Observe(cb)
	return ca, cb
}

func dropUnpaired(other Series) Transform {
	return func(in []Value) []Value {
		theirs := other.Query()
		n := len(in)
		if len(theirs) < n {
			n = len(theirs)
		}
		out := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			if in[i].Missing || theirs[i].Missing {
				continue
			}
			out = append(out, in[i])
		}
		return out
	}
}
