package stat

import (
	"math"

	"github.com/BTBurke/vecstat/pkg/vector"
)

// Variance is the spread of one series around its mean.  It divides by N
// for population statistics or N-1 with bias correction, and shares its
// mean node with every other statistic of the same series.
type Variance struct {
	single
	mean  *Mean
	value float64
	err   error
}

// NewVariance returns the variance node for src, constructing it on first
// request and returning the same node on every subsequent one.  The mean it
// depends on is built or reused through the same registry.
func NewVariance(src vector.Source) *Variance {
	in := vector.Resolve(src)
	key := vector.DerivedKey{Kind: string(KindVariance)}
	if n, ok := in.Derived(key); ok {
		return n.(*Variance)
	}
	v := &Variance{single: newSingle(KindVariance, in), mean: NewMean(in)}
	in.Observe(v)
	in.Register(key, v)
	return v
}

// Mean returns the mean node this variance shares with sibling statistics.
func (v *Variance) Mean() *Mean {
	return v.mean
}

// Query returns the variance, recomputing first if any input changed since
// the last read.
func (v *Variance) Query() (float64, error) {
	if v.dirty {
		v.recompute()
	}
	return v.value, v.err
}

// Scalar returns the variance as a single number.
func (v *Variance) Scalar() (float64, error) {
	return v.Query()
}

func (v *Variance) recompute() {
	obs := v.in.Present()
	cfg := v.in.Config()
	v.value, v.err = 0, nil

	d := divisor(len(obs), cfg)
	m, merr := v.mean.Query()
	switch {
	case d <= 0:
		v.err = DegenerateError{Kind: KindVariance, Reason: "too few observations for divisor"}
	case merr != nil:
		v.err = merr
	default:
		s := 0.0
		for _, o := range obs {
			diff := o - m
			s += diff * diff
		}
		v.value = s / d
	}
	v.done(cfg, v.value, v.err)
}

// StdDev is the square root of a variance.  It depends on the variance
// node, not on the series directly, and propagates its degeneracy.
type StdDev struct {
	single
	variance *Variance
	value    float64
	err      error
}

// NewStdDev returns the standard deviation node for src, constructing it on
// first request and returning the same node on every subsequent one.  The
// variance it depends on is built or reused through the same registry.
func NewStdDev(src vector.Source) *StdDev {
	in := vector.Resolve(src)
	key := vector.DerivedKey{Kind: string(KindStdDev)}
	if n, ok := in.Derived(key); ok {
		return n.(*StdDev)
	}
	sd := &StdDev{single: newSingle(KindStdDev, in), variance: NewVariance(in)}
	sd.variance.observe(sd)
	in.Register(key, sd)
	return sd
}

// Variance returns the variance node this standard deviation is derived
// from.
func (sd *StdDev) Variance() *Variance {
	return sd.variance
}

// Query returns the standard deviation, recomputing first if any input
// changed since the last read.
func (sd *StdDev) Query() (float64, error) {
	if sd.dirty {
		sd.recompute()
	}
	return sd.value, sd.err
}

// Scalar returns the standard deviation as a single number.
func (sd *StdDev) Scalar() (float64, error) {
	return sd.Query()
}

func (sd *StdDev) recompute() {
	sd.value, sd.err = 0, nil
	vv, err := sd.variance.Query()
	if err != nil {
		sd.err = err
	} else {
		sd.value = math.Sqrt(vv)
	}
	sd.done(sd.in.Config(), sd.value, sd.err)
}
