package stats

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyCohort indicates a cohort without any record.
	ErrEmptyCohort = errors.New("cohort is empty")

	// ErrZeroStandardError indicates a pooled standard error of zero, which happens
	// when no record or every record converted.
	ErrZeroStandardError = errors.New("pooled standard error is zero")

	// ErrInvalidAlpha indicates a significance level outside (0, 1).
	ErrInvalidAlpha = errors.New("significance level must be in (0, 1)")
)

// DivisionError reports a quantity that cannot be computed because its divisor is zero.
type DivisionError struct {
	// Quantity names what was being computed, e.g. "conversion rate".
	Quantity string

	// Cohort names the degenerate cohort, empty when the quantity spans both.
	Cohort string

	// Err is ErrEmptyCohort or ErrZeroStandardError.
	Err error
}

func (e *DivisionError) Error() string {
	if e.Cohort != "" {
		return fmt.Sprintf("%s of %s cohort: %v", e.Quantity, e.Cohort, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Quantity, e.Err)
}

func (e *DivisionError) Unwrap() error {
	return e.Err
}
