package stat

import "fmt"

// LengthMismatchError is returned when a dual-input statistic is given
// inputs of unequal length, at construction or when the lengths diverge
// after a mutation.
type LengthMismatchError struct {
	LenX int
	LenY int
}

func (e LengthMismatchError) Error() string {
	return fmt.Sprintf("inputs must be the same length: %d != %d", e.LenX, e.LenY)
}

// DegenerateError tags a statistic that is undefined for its current input,
// such as variance with fewer observations than the divisor requires or
// correlation over zero spread.  It is recorded on the node and returned on
// every read until the input changes; it is never a numeric panic.
type DegenerateError struct {
	Kind   Kind
	Reason string
}

func (e DegenerateError) Error() string {
	return fmt.Sprintf("%s is undefined: %s", e.Kind, e.Reason)
}

// NotScalarError is returned when a result that is not a single number is
// read as one: a multimodal mode or a least-squares fit.
type NotScalarError struct {
	Kind Kind
}

func (e NotScalarError) Error() string {
	return fmt.Sprintf("%s result is not a single number", e.Kind)
}

// DivideByZeroError is returned by operations that would divide by zero,
// such as inverting a fit with zero slope.
type DivideByZeroError struct {
	Op string
}

func (e DivideByZeroError) Error() string {
	return fmt.Sprintf("%s: division by zero", e.Op)
}
