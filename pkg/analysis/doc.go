// Package analysis runs an A/B test end to end: load, clean, split and test.
//
// Run and Analyze return a structured Result and never print; presenting the result
// is left to the report package. Cleaning and splitting stream through a pipeline:
//
//	dataset -> drop mismatched -> drop duplicated user_id -> split by group -> treatment
//	                                                                         -> control
//
// Every stage runs with a concurrency of 1, so the first record of a duplicated user
// is the one kept, exactly as cleaner.Clean does.
package analysis
