// Package drawer renders the graph of a pipeline in the DOT language.
package drawer

import (
	"io"
	"time"

	"github.com/askiada/go-abtest/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepName, childrenStepName string) error
	// SetTotalTime labels a step with the time elapsed since startTime.
	SetTotalTime(stepName string, startTime time.Time) error
	// AddMeasure labels and colours the steps with the metrics of measure.
	AddMeasure(measure measure.Measure) error
	// Render writes the graph to w.
	Render(w io.Writer) error
	// Draw renders the graph to its destination.
	Draw() error
}
