// Package vector implements the mutable windowed numeric sequence at the
// base of the statistics dependency graph.  A Vector owns its data and is
// the only place mutation originates; everything derived from it (computed
// views in this package, statistic nodes in pkg/stat) registers itself as a
// dependent and is invalidated transitively when the vector changes.
package vector

import (
	"sync/atomic"

	"github.com/BTBurke/vecstat/pkg/conf"
)

// Value is a single observation in a vector.  A Value may be missing, in
// which case it holds no number and is skipped by statistics.
type Value struct {
	F       float64
	Missing bool
}

// Num returns a present observation.
func Num(f float64) Value {
	return Value{F: f}
}

// NA returns a missing observation.
func NA() Value {
	return Value{Missing: true}
}

// Nums converts plain numbers to a slice of present observations.
func Nums(fs ...float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = Num(f)
	}
	return out
}

// Dependent is implemented by anything whose cached state is derived from
// the contents of a vector.  Invalidate must mark the dependent stale and
// cascade to its own dependents, short-circuiting when already stale.
type Dependent interface {
	Invalidate()
}

// DerivedKey identifies one derived statistic of a vector in its derivation
// registry.  Other holds the identity of the second operand for dual-input
// statistics and is zero otherwise.  Keys are order-sensitive: the entry for
// covariance(A, B) lives on A keyed by B's identity.
type DerivedKey struct {
	Kind  string
	Other uint64
}

// Series is the read surface shared by Vector and Computed.  Statistic
// constructors accept any Series, so a computed view feeds a statistic
// exactly as a plain vector does.
type Series interface {
	Source

	// ID returns the process-unique identity used for derivation keys.
	ID() uint64
	// Size returns the current length, counting missing entries.
	Size() int
	// Query returns a copy of the ordered contents, missing entries
	// preserved.
	Query() []Value
	// Present returns the non-missing values in order.
	Present() []float64
	// Observe registers a dependent to be invalidated on mutation.  It is
	// called by derived-node constructors and not intended for other use.
	Observe(d Dependent)
	// Derived looks up an already-constructed derived node.
	Derived(key DerivedKey) (interface{}, bool)
	// Register records a newly constructed derived node.
	Register(key DerivedKey, node interface{})
	// Config returns the behavior flags read at recompute time.
	Config() *conf.Config
}

// Mutable is the mutation surface of a Vector.  Computed views do not
// implement it; they change only when their source does.
type Mutable interface {
	Insert(vs ...Value)
	Append(vs ...Value)
	SetSize(n int) error
	SetVector(src Source) error
}

var lastID uint64

func nextID() uint64 {
	return atomic.AddUint64(&lastID, 1)
}

// Vector is a mutable ordered sequence of optional numbers.  By default it
// is a fixed window sized to its initial contents: Insert slides the window
// while Append grows it.  A growable vector grows on either.
type Vector struct {
	id         uint64
	values     []Value
	growable   bool
	cfg        *conf.Config
	dependents []Dependent
	derived    map[DerivedKey]interface{}
	wantSize   int
}

// Option configures a Vector at construction.
type Option func(v *Vector) error

// New creates a vector from initial values.  With no options the vector is
// a fixed window of len(values); see Fixed and Growable.  A vector created
// empty without an explicit window size is growable, since a zero-length
// window could never hold an observation.
func New(values []Value, opts ...Option) (*Vector, error) {
	v := &Vector{
		id:      nextID(),
		values:  append([]Value{}, values...),
		derived: make(map[DerivedKey]interface{}),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	if len(v.values) == 0 && v.wantSize == 0 {
		v.growable = true
	}
	if v.cfg == nil {
		v.cfg = conf.Default()
	}
	if v.wantSize > 0 {
		v.resize(v.wantSize)
	}
	return v, nil
}

// Fixed sets the window length to n, padding or truncating the initial
// values to match.
func Fixed(n int) Option {
	return func(v *Vector) error {
		if n < 1 {
			return InvalidSizeError{Size: n}
		}
		v.growable = false
		v.wantSize = n
		return nil
	}
}

// Growable removes the window bound so Insert appends instead of sliding.
func Growable() Option {
	return func(v *Vector) error {
		v.growable = true
		return nil
	}
}

// WithConfig attaches a configuration other than the shared default.
func WithConfig(c *conf.Config) Option {
	return func(v *Vector) error {
		v.cfg = c
		return nil
	}
}

// Insert adds observations at the tail.  A fixed window discards an equal
// number of observations from the head so its length never changes; a
// growable vector grows.  All dependents are marked dirty.
func (v *Vector) Insert(vs ...Value) {
	if len(vs) == 0 {
		return
	}
	switch {
	case v.growable:
		v.values = append(v.values, vs...)
	case len(v.values) == 0:
		return
	default:
		n := len(v.values)
		v.values = append(v.values, vs...)
		v.values = v.values[len(v.values)-n:]
	}
	v.touch()
}

// Append adds observations at the tail and always grows the vector; a fixed
// window's length becomes the new total.  All dependents are marked dirty.
func (v *Vector) Append(vs ...Value) {
	if len(vs) == 0 {
		return
	}
	v.values = append(v.values, vs...)
	v.touch()
}

// SetSize changes the length to n.  Growth pads at the head, with zeros
// when auto-fill is on and missing markers otherwise; shrinking truncates
// from the head.  All dependents are marked dirty.
func (v *Vector) SetSize(n int) error {
	if n < 1 {
		return InvalidSizeError{Size: n}
	}
	v.resize(n)
	v.touch()
	return nil
}

// SetVector replaces the contents wholesale with a copy of the resolved
// source, adopting its length.  The copy keeps the two vectors independent:
// later mutation of either side never reaches the other.  All dependents
// are marked dirty.
func (v *Vector) SetVector(src Source) error {
	if src == nil {
		return InvalidSourceError{}
	}
	v.values = src.resolve().Query()
	v.touch()
	return nil
}

// Query returns a copy of the ordered contents, missing entries preserved.
func (v *Vector) Query() []Value {
	return append([]Value{}, v.values...)
}

// Size returns the current length, counting missing entries.
func (v *Vector) Size() int {
	return len(v.values)
}

// Present returns the non-missing values in order.
func (v *Vector) Present() []float64 {
	out := make([]float64, 0, len(v.values))
	for _, val := range v.values {
		if val.Missing {
			continue
		}
		out = append(out, val.F)
	}
	return out
}

// Copy returns an independent vector with the same contents, mode, and
// configuration but a new identity, an empty derivation registry, and no
// dependents.
func (v *Vector) Copy() *Vector {
	c := &Vector{
		id:       nextID(),
		values:   append([]Value{}, v.values...),
		growable: v.growable,
		cfg:      v.cfg,
		derived:  make(map[DerivedKey]interface{}),
	}
	return c
}

// ID returns the process-unique identity of this vector.
func (v *Vector) ID() uint64 {
	return v.id
}

// Observe registers a dependent to be invalidated on mutation.
func (v *Vector) Observe(d Dependent) {
	for _, existing := range v.dependents {
		if existing == d {
			return
		}
	}
	v.dependents = append(v.dependents, d)
}

// Derived looks up an already-constructed derived node by key.
func (v *Vector) Derived(key DerivedKey) (interface{}, bool) {
	node, ok := v.derived[key]
	return node, ok
}

// Register records a derived node under key so later construction requests
// return the same node.
func (v *Vector) Register(key DerivedKey, node interface{}) {
	v.derived[key] = node
}

// Config returns the behavior flags for this vector.
func (v *Vector) Config() *conf.Config {
	return v.cfg
}

func (v *Vector) resolve() Series {
	return v
}

func (v *Vector) touch() {
	for _, d := range v.dependents {
		d.Invalidate()
	}
}

func (v *Vector) resize(n int) {
	cur := len(v.values)
	switch {
	case n == cur:
	case n < cur:
		v.values = v.values[cur-n:]
	default:
		pad := make([]Value, n-cur)
		if !v.cfg.AutoFill {
			for i := range pad {
				pad[i].Missing = true
			}
		}
		v.values = append(pad, v.values...)
	}
}
