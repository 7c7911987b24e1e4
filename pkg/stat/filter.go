package stat

import "github.com/BTBurke/vecstat/pkg/vector"

// FilterOutliers returns a computed view of src that drops observations
// more than k standard deviations from the mean.  The mean and standard
// deviation come from the shared nodes of src, so the view recomputes them
// at most once per mutation and tracks the source lazily.  Inputs with too
// few observations for a standard deviation pass through unchanged.
func FilterOutliers(src vector.Series, k float64) *vector.Computed {
	m := NewMean(src)
	sd := NewStdDev(src)
	c := vector.NewComputed(src)
	c.SetFilter(func(in []vector.Value) []vector.Value {
		mv, merr := m.Query()
		sv, serr := sd.Query()
		if merr != nil || serr != nil {
			return in
		}
		limit := k * sv
		out := make([]vector.Value, 0, len(in))
		for _, val := range in {
			if !val.Missing {
				d := val.F - mv
				if d < 0 {
					d = -d
				}
				if d > limit {
					continue
				}
			}
			out = append(out, val)
		}
		return out
	})
	return c
}
