// Package dataset holds the experiment records of an A/B test.
//
// A Dataset is an ordered, immutable sequence of Records. It is created once by
// Load or Read and every transformation returns a new Dataset, so a Dataset handed
// to a caller can never change under its feet. Split partitions a Dataset into the
// treatment and control Cohorts.
package dataset
