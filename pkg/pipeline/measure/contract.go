package measure

import "time"

// Measure holds one Metric per step.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the counters and timings of one step.
type Metric interface {
	AddOutput(emitted int, elapsed time.Duration)
	AddTransportDuration(inputStepName string, elapsed time.Duration)
	Received() int64
	Emitted() int64
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]time.Duration
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
