package dataset

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptySource   = errors.New("source has no header")
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidValue  = errors.New("invalid value")
)

// LoadError reports a source that could not be read into a Dataset.
// Line is the 1-based line of the source at fault, 0 when it does not apply.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	path := e.Path
	if path == "" {
		path = "<reader>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("unable to load %s: line %d: %v", path, e.Line, e.Err)
	}

	return fmt.Sprintf("unable to load %s: %v", path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
