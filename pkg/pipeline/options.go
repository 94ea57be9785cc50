package pipeline

import "github.com/askiada/go-abtest/pkg/pipeline/model"

// StepOption configures a step before it starts.
type StepOption[O any] func(s *model.Step[O])

// StepConcurrency sets the number of goroutines processing the input of a step.
// Any value above 1 gives up ordering.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *model.Step[O]) {
		s.Details.Concurrent = concurrent
	}
}

// SplitterOption configures a splitter before it starts.
type SplitterOption[I any] func(s *Splitter[I])

// SplitterBufferSize sets the buffer of every branch of a splitter.
func SplitterBufferSize[I any](bufferSize int) SplitterOption[I] {
	return func(s *Splitter[I]) {
		s.bufferSize = bufferSize
	}
}
