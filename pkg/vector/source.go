package vector

// Source is anything that can stand in for a vector at a constructor
// boundary: raw numbers, raw optional values, or an existing Series.  Raw
// sources build a new vector; an existing Series resolves to itself so the
// derivation registry sees the same identity no matter how many times it is
// passed.  The type is sealed: resolution happens once at the boundary, not
// inside each statistic.
type Source interface {
	resolve() Series
}

// Values is a raw list of plain numbers usable wherever a vector is
// expected.
type Values []float64

func (vs Values) resolve() Series {
	v, _ := New(Nums(vs...))
	return v
}

// Data is a raw list of optional values usable wherever a vector is
// expected.
type Data []Value

func (d Data) resolve() Series {
	v, _ := New(d)
	return v
}

// Resolve materializes a source as a Series.  A nil source yields an empty
// growable vector.
func Resolve(src Source) Series {
	if src == nil {
		v, _ := New(nil, Growable())
		return v
	}
	return src.resolve()
}
