package measure

import (
	"sync"
	"time"
)

type transportInfo struct {
	elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	allTransports map[string]*transportInfo
	mu            *sync.Mutex
	endDuration   time.Duration
	stepElapsed   time.Duration
	received      int64
	emitted       int64
	concurrent    int
}

// AddOutput records one processed input and the number of elements it produced.
func (mt *DefaultMetric) AddOutput(emitted int, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.received++
	mt.emitted += int64(emitted)
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) Received() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.received
}

func (mt *DefaultMetric) Emitted() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.emitted
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.endDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.endDuration
}

func (mt *DefaultMetric) AddTransportDuration(inputStepName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.allTransports[inputStepName] == nil {
		mt.allTransports[inputStepName] = &transportInfo{}
	}
	ch := mt.allTransports[inputStepName]
	ch.elapsed += elapsed
	ch.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.received == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stepElapsed) / float64(mt.received)))
}

// AVGTransportDuration returns the average time spent waiting on each parent step,
// divided by the concurrency of the step.
func (mt *DefaultMetric) AVGTransportDuration() map[string]time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	concurrent := mt.concurrent
	if concurrent < 1 {
		concurrent = 1
	}
	res := make(map[string]time.Duration, len(mt.allTransports))
	for name, ch := range mt.allTransports {
		if ch.total == 0 {
			continue
		}
		res[name] = round(time.Duration(float64(ch.elapsed) / float64(ch.total) / float64(concurrent)))
	}

	return res
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
