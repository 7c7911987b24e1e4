package vector

import "fmt"

// InvalidSizeError is returned when a vector size below 1 is requested.
type InvalidSizeError struct {
	Size int
}

func (e InvalidSizeError) Error() string {
	return fmt.Sprintf("vector size must be >= 1, got %d", e.Size)
}

// ReadOnlyError is returned when mutation is attempted through a computed
// view, which changes only when its source does.
type ReadOnlyError struct{}

func (e ReadOnlyError) Error() string {
	return "computed vector is read only; mutate its source instead"
}

// InvalidSourceError is returned when a nil source is given where contents
// are required.
type InvalidSourceError struct{}

func (e InvalidSourceError) Error() string {
	return "source must not be nil"
}
