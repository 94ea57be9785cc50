// Package stats implements the pooled two-proportion z-test used to compare the
// conversion rates of the two arms of an A/B test.
//
// # Method
//
// Under the null hypothesis both cohorts share one true conversion rate. The rates
// are pooled, the standard error of their difference is derived from the pooled
// rate, and the observed difference is standardised into a z-statistic:
//
//	p_pool   = (n_t*p_t + n_c*p_c) / (n_t + n_c)
//	se_pool  = sqrt(p_pool * (1 - p_pool) * (1/n_t + 1/n_c))
//	z        = (p_t - p_c) / se_pool
//	p-value  = 2 * (1 - Φ(|z|))
//
// The null hypothesis is rejected when the p-value is below the significance level.
//
// # Errors
//
// Degenerate inputs are reported as *DivisionError rather than producing NaN: an
// empty cohort (ErrEmptyCohort) or a pooled rate of 0 or 1 (ErrZeroStandardError).
package stats
