package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStep runs once when a step is added, before any data flows.
	// parentSteps is empty for root steps.
	PrepareStep(parentSteps []*StepInfo, step *StepInfo) error
	// OnStepOutput runs everytime a step has processed one input.
	// emitted is the number of elements the step pushed downstream for that input.
	OnStepOutput(parentStep, step *StepInfo, emitted int, iterationDuration, computationDuration time.Duration) error
	// AfterStep runs when a step has drained its input.
	AfterStep(step *StepInfo, totalDuration time.Duration) error
	// Finish runs after the pipeline is finished.
	Finish() error
}
