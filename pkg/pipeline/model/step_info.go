package model

// StepType identifies the role of a step in the pipeline graph.
type StepType string

const (
	RootStepType     StepType = "root"
	FilterStepType   StepType = "filter"
	SplitterStepType StepType = "splitter"
	SinkStepType     StepType = "sink"
)

// StepInfo describes a step to the pipeline options.
type StepInfo struct {
	Type       StepType
	Name       string
	Concurrent int
	BufferSize int
}

var (
	StartStep = &Step[any]{Details: &StepInfo{Name: "start"}}
	EndStep   = &Step[any]{Details: &StepInfo{Name: "end"}}
)

// Step is the output of a stage. Downstream stages read from Output.
type Step[O any] struct {
	Output  chan O
	Details *StepInfo
}
