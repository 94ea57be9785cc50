package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/askiada/go-abtest/pkg/dataset"
)

// DefaultAlpha is the two-sided significance level used when none is configured.
const DefaultAlpha = 0.05

// -----------------------------------------------------------------------------
// Proportions
// -----------------------------------------------------------------------------

// Proportion is the outcome of one cohort: N records of which Converted converted.
type Proportion struct {
	// Group names the cohort in error messages.
	Group string

	// N is the number of records.
	N int

	// Converted is the number of converted records.
	Converted int
}

// FromCohort summarises a cohort as a Proportion.
func FromCohort(c dataset.Cohort) Proportion {
	return Proportion{
		Group:     string(c.Group),
		N:         c.Size(),
		Converted: c.Conversions(),
	}
}

// ConversionRate returns the fraction of converted records.
//
// Outputs:
//   - float64: The rate, in [0, 1].
//   - error: *DivisionError wrapping ErrEmptyCohort if p.N is zero.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func ConversionRate(p Proportion) (float64, error) {
	if p.N == 0 {
		return 0, &DivisionError{Quantity: "conversion rate", Cohort: p.Group, Err: ErrEmptyCohort}
	}

	return float64(p.Converted) / float64(p.N), nil
}

// -----------------------------------------------------------------------------
// Verdict
// -----------------------------------------------------------------------------

// Decision is the outcome of a hypothesis test.
type Decision int

const (
	// FailToReject means the data is compatible with the null hypothesis.
	FailToReject Decision = iota

	// Reject means the difference is statistically significant.
	Reject
)

// String returns the verdict sentence of the decision.
func (d Decision) String() string {
	if d == Reject {
		return "Reject the null hypothesis"
	}

	return "Fail to reject the null hypothesis"
}

// MarshalText encodes the decision as its verdict sentence.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Decide rejects the null hypothesis iff pValue < alpha.
func Decide(pValue, alpha float64) Decision {
	if pValue < alpha {
		return Reject
	}

	return FailToReject
}

// -----------------------------------------------------------------------------
// Two-proportion z-test
// -----------------------------------------------------------------------------

// ZTestResult holds the results of a pooled two-proportion z-test.
type ZTestResult struct {
	// TreatmentRate and ControlRate are the conversion rates of the cohorts.
	TreatmentRate float64 `json:"treatment_rate" yaml:"treatment_rate"`
	ControlRate   float64 `json:"control_rate" yaml:"control_rate"`

	// Diff is TreatmentRate - ControlRate.
	Diff float64 `json:"diff" yaml:"diff"`

	// PooledRate is the conversion rate of both cohorts together.
	PooledRate float64 `json:"pooled_rate" yaml:"pooled_rate"`

	// PooledSE is the standard error of Diff under the null hypothesis.
	PooledSE float64 `json:"pooled_se" yaml:"pooled_se"`

	// ZObserved is Diff / PooledSE.
	ZObserved float64 `json:"z_observed" yaml:"z_observed"`

	// ZCritical is the two-sided critical value at SignificanceLevel.
	ZCritical float64 `json:"z_critical" yaml:"z_critical"`

	// PValue is the two-sided p-value of ZObserved.
	PValue float64 `json:"p_value" yaml:"p_value"`

	// SignificanceLevel is the alpha used (e.g., 0.05).
	SignificanceLevel float64 `json:"significance_level" yaml:"significance_level"`

	// Decision is Reject if PValue < SignificanceLevel.
	Decision Decision `json:"decision" yaml:"decision"`
}

// CriticalValue returns the two-sided critical z-value for alpha,
// 1.959964 for alpha = 0.05.
func CriticalValue(alpha float64) float64 {
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

// TwoSidedPValue returns the probability of a standard normal variable being at
// least |z| away from zero.
func TwoSidedPValue(z float64) float64 {
	return 2 * distuv.UnitNormal.Survival(math.Abs(z))
}

// TwoProportionZTest compares the conversion rates of two cohorts.
//
// Description:
//
//	Pools both cohorts to estimate the standard error of the rate difference under
//	the null hypothesis that they share one conversion rate, then standardises the
//	observed difference. Swapping the cohorts negates ZObserved and leaves PValue
//	unchanged.
//
// Inputs:
//   - treatment: The treatment cohort. Must not be empty.
//   - control: The control cohort. Must not be empty.
//   - alpha: Two-sided significance level, in (0, 1).
//
// Outputs:
//   - *ZTestResult: Test results with z-statistic, p-value and decision.
//   - error: ErrInvalidAlpha for a bad alpha, *DivisionError for an empty cohort or a
//     zero pooled standard error.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func TwoProportionZTest(treatment, control Proportion, alpha float64) (*ZTestResult, error) {
	if !(alpha > 0 && alpha < 1) {
		return nil, ErrInvalidAlpha
	}

	treatmentRate, err := ConversionRate(treatment)
	if err != nil {
		return nil, err
	}
	controlRate, err := ConversionRate(control)
	if err != nil {
		return nil, err
	}

	nt := float64(treatment.N)
	nc := float64(control.N)

	diff := treatmentRate - controlRate
	pooled := (nt*treatmentRate + nc*controlRate) / (nt + nc)
	se := math.Sqrt(pooled * (1 - pooled) * (1/nt + 1/nc))
	if se == 0 {
		return nil, &DivisionError{Quantity: "z-statistic", Err: ErrZeroStandardError}
	}

	z := diff / se
	pValue := TwoSidedPValue(z)

	return &ZTestResult{
		TreatmentRate:     treatmentRate,
		ControlRate:       controlRate,
		Diff:              diff,
		PooledRate:        pooled,
		PooledSE:          se,
		ZObserved:         z,
		ZCritical:         CriticalValue(alpha),
		PValue:            pValue,
		SignificanceLevel: alpha,
		Decision:          Decide(pValue, alpha),
	}, nil
}
