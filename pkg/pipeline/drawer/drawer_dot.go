package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-abtest/internal/store"
	"github.com/askiada/go-abtest/pkg/pipeline/measure"
)

const maxRGB = 240

// DOTDrawer writes the pipeline graph to a DOT file.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	store    store.StepStore[string, string]
	fileName string
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	st := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		fileName: fileName,
		store:    st,
		graph:    graph.NewWithStore(graph.StringHash, graph.Store[string, string](st), graph.Directed()),
	}
}

// AddStep adds a step to the pipeline graph. Adding a step twice is a no-op.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("shape", "box"))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps. Adding a link twice is a no-op.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// SetTotalTime labels a step with the time elapsed since startTime.
func (d *DOTDrawer) SetTotalTime(stepName string, startTime time.Time) error {
	elapsed := time.Since(startTime).Round(time.Microsecond)

	return d.store.UpdateVertex(stepName, func(p *graph.VertexProperties) {
		p.Attributes["label"] = fmt.Sprintf("%s\\ntotal: %s", stepName, elapsed)
	})
}

// AddMeasure labels every step with its counters and colours it from blue (fastest)
// to red (slowest) by average computation time.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		if _, _, err := d.store.Vertex(name); err != nil {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	sort.Slice(names, func(i, j int) bool {
		return metrics[names[i]].AVGDuration() < metrics[names[j]].AVGDuration()
	})
	minValue := metrics[names[0]].AVGDuration()
	maxValue := metrics[names[len(names)-1]].AVGDuration()

	for _, name := range names {
		mt := metrics[name]
		fraction := 0.0
		if maxValue > minValue {
			fraction = float64(mt.AVGDuration()-minValue) / float64(maxValue-minValue)
		}
		red := maxRGB * fraction
		colour, err := colors.RGB(uint8(red), 0, uint8(maxRGB-red)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		label := fmt.Sprintf("%s\\nin: %d out: %d\\navg: %s", name, mt.Received(), mt.Emitted(), mt.AVGDuration())
		err = d.store.UpdateVertex(name, func(p *graph.VertexProperties) {
			p.Attributes["label"] = label
			p.Attributes["style"] = "filled"
			p.Attributes["fillcolor"] = colour.ToHEX().String()
			p.Attributes["fontcolor"] = "white"
		})
		if err != nil {
			return err
		}

		for parent, elapsed := range mt.AVGTransportDuration() {
			err = d.graph.UpdateEdge(parent, name, graph.EdgeAttribute("label", elapsed.String()))
			if err != nil && !errors.Is(err, graph.ErrEdgeNotFound) {
				return errors.Wrapf(err, "unable to label edge from %s to %s", parent, name)
			}
		}
	}

	return nil
}

// Render writes the graph to w.
func (d *DOTDrawer) Render(w io.Writer) error {
	err := draw.DOT(d.graph, w, draw.GraphAttribute("rankdir", "LR"))
	if err != nil {
		return errors.Wrap(err, "unable to render dot")
	}

	return nil
}

// Draw creates the DOT file with the pipeline graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}

	return closeAfter(file, d.fileName, d.Render(file))
}

// closeAfter closes file and returns writeErr, or the close error when writing
// succeeded.
func closeAfter(file io.Closer, fileName string, writeErr error) error {
	closeErr := file.Close()
	if writeErr != nil {
		return errors.Wrapf(writeErr, "unable to write dot file %s", fileName)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "unable to close dot file %s", fileName)
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
