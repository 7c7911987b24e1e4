package stat

import (
	"math"

	"github.com/BTBurke/vecstat/pkg/vector"
)

// Covariance is the joint spread of two equal-length series.  Pairs where
// either side is missing are skipped and the divisor counts complete pairs;
// use vector.AlignMissing first for strict alignment.  Registry keys are
// ordered, so covariance(A, B) and covariance(B, A) are distinct nodes even
// though their values agree.
type Covariance struct {
	node
	x, y   vector.Series
	mx, my *Mean
	value  float64
	err    error
}

// NewCovariance returns the covariance node for the ordered pair (x, y),
// constructing it on first request and returning the same node on every
// subsequent one.  Both inputs must resolve to the same length.  Nil
// sources resolve to empty growable vectors.
func NewCovariance(x, y vector.Source) (*Covariance, error) {
	sx := vector.Resolve(x)
	sy := vector.Resolve(y)
	if sx.Size() != sy.Size() {
		return nil, LengthMismatchError{LenX: sx.Size(), LenY: sy.Size()}
	}
	key := vector.DerivedKey{Kind: string(KindCovariance), Other: sy.ID()}
	if n, ok := sx.Derived(key); ok {
		return n.(*Covariance), nil
	}
	c := &Covariance{
		node: newNode(KindCovariance, pairName(KindCovariance, sx, sy)),
		x:    sx,
		y:    sy,
		mx:   NewMean(sx),
		my:   NewMean(sy),
	}
	sx.Observe(c)
	sy.Observe(c)
	sx.Register(key, c)
	return c, nil
}

// MeanX returns the mean node of the first input.
func (c *Covariance) MeanX() *Mean {
	return c.mx
}

// MeanY returns the mean node of the second input.
func (c *Covariance) MeanY() *Mean {
	return c.my
}

// Query returns the covariance, recomputing first if any input changed
// since the last read.
func (c *Covariance) Query() (float64, error) {
	if c.dirty {
		c.recompute()
	}
	return c.value, c.err
}

// Scalar returns the covariance as a single number.
func (c *Covariance) Scalar() (float64, error) {
	return c.Query()
}

func (c *Covariance) recompute() {
	cfg := c.x.Config()
	c.value, c.err = 0, nil

	xs := c.x.Query()
	ys := c.y.Query()
	if len(xs) != len(ys) {
		c.err = LengthMismatchError{LenX: len(xs), LenY: len(ys)}
		c.done(cfg, c.value, c.err)
		return
	}

	pairs := 0
	for i := range xs {
		if !xs[i].Missing && !ys[i].Missing {
			pairs++
		}
	}
	d := divisor(pairs, cfg)
	mx, errx := c.mx.Query()
	my, erry := c.my.Query()
	switch {
	case d <= 0:
		c.err = DegenerateError{Kind: KindCovariance, Reason: "too few complete pairs for divisor"}
	case errx != nil:
		c.err = errx
	case erry != nil:
		c.err = erry
	default:
		s := 0.0
		for i := range xs {
			if xs[i].Missing || ys[i].Missing {
				continue
			}
			s += (xs[i].F - mx) * (ys[i].F - my)
		}
		c.value = s / d
	}
	c.done(cfg, c.value, c.err)
}

// Correlation is the Pearson correlation of two equal-length series,
// derived from their shared covariance and variance nodes.
type Correlation struct {
	node
	x, y   vector.Series
	cov    *Covariance
	vx, vy *Variance
	value  float64
	err    error
}

// NewCorrelation returns the correlation node for the ordered pair (x, y),
// constructing it on first request and returning the same node on every
// subsequent one.  The covariance and both variances are built or reused
// through the same registry.
func NewCorrelation(x, y vector.Source) (*Correlation, error) {
	sx := vector.Resolve(x)
	sy := vector.Resolve(y)
	cov, err := NewCovariance(sx, sy)
	if err != nil {
		return nil, err
	}
	key := vector.DerivedKey{Kind: string(KindCorrelation), Other: sy.ID()}
	if n, ok := sx.Derived(key); ok {
		return n.(*Correlation), nil
	}
	c := &Correlation{
		node: newNode(KindCorrelation, pairName(KindCorrelation, sx, sy)),
		x:    sx,
		y:    sy,
		cov:  cov,
		vx:   NewVariance(sx),
		vy:   NewVariance(sy),
	}
	c.cov.observe(c)
	c.vx.observe(c)
	c.vy.observe(c)
	sx.Register(key, c)
	return c, nil
}

// Covariance returns the covariance node this correlation is derived from.
func (c *Correlation) Covariance() *Covariance {
	return c.cov
}

// VarianceX returns the variance node of the first input.
func (c *Correlation) VarianceX() *Variance {
	return c.vx
}

// VarianceY returns the variance node of the second input.
func (c *Correlation) VarianceY() *Variance {
	return c.vy
}

// Query returns the correlation, recomputing first if any input changed
// since the last read.
func (c *Correlation) Query() (float64, error) {
	if c.dirty {
		c.recompute()
	}
	return c.value, c.err
}

// Scalar returns the correlation as a single number.
func (c *Correlation) Scalar() (float64, error) {
	return c.Query()
}

func (c *Correlation) recompute() {
	cfg := c.x.Config()
	c.value, c.err = 0, nil

	cv, err := c.cov.Query()
	vx, errx := c.vx.Query()
	vy, erry := c.vy.Query()
	switch {
	case err != nil:
		c.err = err
	case errx != nil:
		c.err = errx
	case erry != nil:
		c.err = erry
	default:
		sd1 := math.Sqrt(vx)
		sd2 := math.Sqrt(vy)
		if sd1 == 0 || sd2 == 0 {
			c.err = DegenerateError{Kind: KindCorrelation, Reason: "zero spread in an input"}
		} else {
			c.value = cv / (sd1 * sd2)
		}
	}
	c.done(cfg, c.value, c.err)
}

// Coefficients is the result of a least-squares fit: y = Beta*x + Alpha.
type Coefficients struct {
	Alpha float64
	Beta  float64
}

// LeastSquareFit is the least-squares line through two equal-length series.
// Its result is a pair, never a single number; Scalar always returns
// NotScalarError.
type LeastSquareFit struct {
	node
	x, y   vector.Series
	cov    *Covariance
	vx, vy *Variance
	mx, my *Mean
	coeff  Coefficients
	err    error
}

// NewLeastSquareFit returns the fit node for the ordered pair (x, y),
// constructing it on first request and returning the same node on every
// subsequent one.  All constituent nodes (both means, both variances, the
// covariance) are built or reused through the same registry so sibling
// statistics share their work.
func NewLeastSquareFit(x, y vector.Source) (*LeastSquareFit, error) {
	sx := vector.Resolve(x)
	sy := vector.Resolve(y)
	cov, err := NewCovariance(sx, sy)
	if err != nil {
		return nil, err
	}
	key := vector.DerivedKey{Kind: string(KindLeastSquareFit), Other: sy.ID()}
	if n, ok := sx.Derived(key); ok {
		return n.(*LeastSquareFit), nil
	}
	f := &LeastSquareFit{
		node: newNode(KindLeastSquareFit, pairName(KindLeastSquareFit, sx, sy)),
		x:    sx,
		y:    sy,
		cov:  cov,
		vx:   NewVariance(sx),
		vy:   NewVariance(sy),
		mx:   NewMean(sx),
		my:   NewMean(sy),
	}
	f.cov.observe(f)
	f.vx.observe(f)
	f.vy.observe(f)
	f.mx.observe(f)
	f.my.observe(f)
	sx.Register(key, f)
	return f, nil
}

// Covariance returns the covariance node this fit is derived from.
func (f *LeastSquareFit) Covariance() *Covariance {
	return f.cov
}

// VarianceX returns the variance node of the first input.
func (f *LeastSquareFit) VarianceX() *Variance {
	return f.vx
}

// VarianceY returns the variance node of the second input.
func (f *LeastSquareFit) VarianceY() *Variance {
	return f.vy
}

// MeanX returns the mean node of the first input.
func (f *LeastSquareFit) MeanX() *Mean {
	return f.mx
}

// MeanY returns the mean node of the second input.
func (f *LeastSquareFit) MeanY() *Mean {
	return f.my
}

// Query returns the fitted coefficients, recomputing first if any input
// changed since the last read.
func (f *LeastSquareFit) Query() (Coefficients, error) {
	if f.dirty {
		f.recompute()
	}
	return f.coeff, f.err
}

// Scalar always returns NotScalarError: a fit is a pair of coefficients.
func (f *LeastSquareFit) Scalar() (float64, error) {
	return 0, NotScalarError{Kind: KindLeastSquareFit}
}

// Alpha returns the fitted intercept.
func (f *LeastSquareFit) Alpha() (float64, error) {
	c, err := f.Query()
	return c.Alpha, err
}

// Beta returns the fitted slope.
func (f *LeastSquareFit) Beta() (float64, error) {
	c, err := f.Query()
	return c.Beta, err
}

// YGivenX evaluates the fitted line at x.
func (f *LeastSquareFit) YGivenX(x float64) (float64, error) {
	c, err := f.Query()
	if err != nil {
		return 0, err
	}
	return c.Beta*x + c.Alpha, nil
}

// XGivenY inverts the fitted line at y.  A zero slope returns
// DivideByZeroError.
func (f *LeastSquareFit) XGivenY(y float64) (float64, error) {
	c, err := f.Query()
	if err != nil {
		return 0, err
	}
	if c.Beta == 0 {
		return 0, DivideByZeroError{Op: "x given y"}
	}
	return (y - c.Alpha) / c.Beta, nil
}

func (f *LeastSquareFit) recompute() {
	cfg := f.x.Config()
	f.coeff, f.err = Coefficients{}, nil

	cv, err := f.cov.Query()
	v1, errx := f.vx.Query()
	m1, errmx := f.mx.Query()
	m2, errmy := f.my.Query()
	switch {
	case err != nil:
		f.err = err
	case errx != nil:
		f.err = errx
	case errmx != nil:
		f.err = errmx
	case errmy != nil:
		f.err = errmy
	case v1 == 0:
		f.err = DegenerateError{Kind: KindLeastSquareFit, Reason: "zero spread in x"}
	default:
		beta := cv / v1
		f.coeff = Coefficients{Alpha: m2 - beta*m1, Beta: beta}
	}
	f.done(cfg, f.coeff.Beta, f.err)
}
