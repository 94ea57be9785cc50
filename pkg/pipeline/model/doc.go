// Package model provides the data structures shared by the pipeline package and its options.
// It defines the step descriptors passed around the pipeline and the hook interface
// that pipeline options implement to observe every stage.
package model
