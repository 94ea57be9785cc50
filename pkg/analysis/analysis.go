package analysis

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-abtest/pkg/cleaner"
	"github.com/askiada/go-abtest/pkg/dataset"
	"github.com/askiada/go-abtest/pkg/pipeline"
	"github.com/askiada/go-abtest/pkg/pipeline/measure"
	"github.com/askiada/go-abtest/pkg/pipeline/model"
	"github.com/askiada/go-abtest/pkg/stats"
)

// Names of the cleaning pipeline stages.
const (
	StepDataset        = "dataset"
	StepDropMismatched = "drop mismatched"
	StepDropDuplicated = "drop duplicated user_id"
	StepSplit          = "split by group"
	StepTreatment      = "treatment"
	StepControl        = "control"
)

// CleaningSummary counts the records removed by each filter.
type CleaningSummary struct {
	Loaded     int `json:"loaded" yaml:"loaded"`
	Mismatched int `json:"mismatched" yaml:"mismatched"`
	Duplicated int `json:"duplicated" yaml:"duplicated"`
	Retained   int `json:"retained" yaml:"retained"`
}

// CohortSummary describes one cohort.
type CohortSummary struct {
	Group       dataset.Group `json:"group" yaml:"group"`
	Size        int           `json:"size" yaml:"size"`
	Conversions int           `json:"conversions" yaml:"conversions"`
	Rate        float64       `json:"rate" yaml:"rate"`
}

// Result is the outcome of an analysis.
type Result struct {
	Cleaning  CleaningSummary   `json:"cleaning" yaml:"cleaning"`
	Treatment CohortSummary     `json:"treatment" yaml:"treatment"`
	Control   CohortSummary     `json:"control" yaml:"control"`
	Test      stats.ZTestResult `json:"test" yaml:"test"`
}

// Analyzer runs A/B test analyses. It holds no state between runs.
type Analyzer struct {
	alpha    float64
	logger   *zap.Logger
	pipeOpts []model.PipelineOption
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		alpha:  stats.DefaultAlpha,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Run loads the CSV file at path and analyses it.
func (a *Analyzer) Run(ctx context.Context, path string) (*Result, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Info("dataset loaded", zap.String("path", path), zap.Int("records", ds.Len()))

	return a.Analyze(ctx, ds)
}

// Analyze cleans ds, splits it into cohorts and runs the z-test.
func (a *Analyzer) Analyze(ctx context.Context, ds dataset.Dataset) (*Result, error) {
	treatment, control, summary, err := a.cleanAndSplit(ctx, ds)
	if err != nil {
		return nil, err
	}
	a.logger.Info("dataset cleaned",
		zap.Int("loaded", summary.Loaded),
		zap.Int("mismatched", summary.Mismatched),
		zap.Int("duplicated", summary.Duplicated),
		zap.Int("retained", summary.Retained),
	)
	a.logger.Info("cohorts split",
		zap.Int("treatment", treatment.Size()),
		zap.Int("control", control.Size()),
	)

	test, err := Evaluate(treatment, control, a.alpha)
	if err != nil {
		return nil, err
	}
	a.logger.Info("z-test computed",
		zap.Float64("z_observed", test.ZObserved),
		zap.Float64("p_value", test.PValue),
		zap.Stringer("decision", test.Decision),
	)

	return &Result{
		Cleaning:  summary,
		Treatment: summarise(treatment, test.TreatmentRate),
		Control:   summarise(control, test.ControlRate),
		Test:      *test,
	}, nil
}

// Evaluate runs the z-test on two cohorts.
func Evaluate(treatment, control dataset.Cohort, alpha float64) (*stats.ZTestResult, error) {
	res, err := stats.TwoProportionZTest(stats.FromCohort(treatment), stats.FromCohort(control), alpha)
	if err != nil {
		return nil, errors.Wrap(err, "unable to compute z-test")
	}

	return res, nil
}

func summarise(c dataset.Cohort, rate float64) CohortSummary {
	return CohortSummary{
		Group:       c.Group,
		Size:        c.Size(),
		Conversions: c.Conversions(),
		Rate:        rate,
	}
}

// collector gathers the records reaching a sink.
type collector struct {
	mu      sync.Mutex
	records []dataset.Record
}

func (c *collector) add(_ context.Context, r dataset.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)

	return nil
}

func (c *collector) cohort(g dataset.Group) dataset.Cohort {
	c.mu.Lock()
	defer c.mu.Unlock()

	return dataset.Cohort{Group: g, Records: dataset.New(c.records...)}
}

func (a *Analyzer) cleanAndSplit(ctx context.Context, ds dataset.Dataset) (dataset.Cohort, dataset.Cohort, CleaningSummary, error) {
	// stops the steps already started if the pipeline cannot be completed
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msr := measure.NewDefaultMeasure()
	opts := append([]model.PipelineOption{measure.PipelineMeasure(msr)}, a.pipeOpts...)

	var treatment, control dataset.Cohort
	pipe, err := pipeline.New(ctx, opts...)
	if err != nil {
		return treatment, control, CleaningSummary{}, errors.Wrap(err, "unable to create pipeline")
	}

	treatmentSink, controlSink, err := buildPipeline(pipe, ds)
	if err != nil {
		return treatment, control, CleaningSummary{}, errors.Wrap(err, "unable to build pipeline")
	}

	err = pipe.Run()
	if err != nil {
		return treatment, control, CleaningSummary{}, errors.Wrap(err, "unable to clean dataset")
	}

	for name, mt := range msr.AllMetrics() {
		a.logger.Debug("pipeline step",
			zap.String("step", name),
			zap.Int64("received", mt.Received()),
			zap.Int64("emitted", mt.Emitted()),
			zap.Duration("avg", mt.AVGDuration()),
			zap.Duration("total", mt.GetTotalDuration()),
		)
	}

	treatment = treatmentSink.cohort(dataset.Treatment)
	control = controlSink.cohort(dataset.Control)

	return treatment, control, summariseCleaning(ds.Len(), msr), nil
}

func summariseCleaning(loaded int, msr measure.Measure) CleaningSummary {
	emitted := func(name string) int {
		if mt := msr.GetMetric(name); mt != nil {
			return int(mt.Emitted())
		}

		return 0
	}
	afterMismatch := emitted(StepDropMismatched)
	retained := emitted(StepDropDuplicated)

	return CleaningSummary{
		Loaded:     loaded,
		Mismatched: loaded - afterMismatch,
		Duplicated: afterMismatch - retained,
		Retained:   retained,
	}
}

func buildPipeline(pipe *pipeline.Pipeline, ds dataset.Dataset) (*collector, *collector, error) {
	root, err := pipeline.AddRootStep(pipe, StepDataset, func(ctx context.Context, rootChan chan<- dataset.Record) error {
		for _, r := range ds.All() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- r:
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	matched, err := pipeline.AddStepFilter(pipe, StepDropMismatched, root, func(_ context.Context, r dataset.Record) (bool, error) {
		return cleaner.IsMatched(r), nil
	})
	if err != nil {
		return nil, nil, err
	}

	users := cleaner.NewUserFilter()
	unique, err := pipeline.AddStepFilter(pipe, StepDropDuplicated, matched, func(_ context.Context, r dataset.Record) (bool, error) {
		return users.Keep(r), nil
	}, pipeline.StepConcurrency[dataset.Record](1))
	if err != nil {
		return nil, nil, err
	}

	splitter, err := pipeline.AddSplitterFn(pipe, StepSplit, unique, []pipeline.SplitterFn[dataset.Record]{
		inGroup(dataset.Treatment),
		inGroup(dataset.Control),
	}, pipeline.SplitterBufferSize[dataset.Record](64))
	if err != nil {
		return nil, nil, err
	}

	treatmentSink, controlSink := &collector{}, &collector{}
	for _, sink := range []struct {
		name string
		c    *collector
	}{
		{StepTreatment, treatmentSink},
		{StepControl, controlSink},
	} {
		branch, ok := splitter.Get()
		if !ok {
			return nil, nil, errors.Errorf("missing splitter branch for %s", sink.name)
		}
		err = pipeline.AddSink(pipe, sink.name, branch, sink.c.add)
		if err != nil {
			return nil, nil, err
		}
	}

	return treatmentSink, controlSink, nil
}

func inGroup(g dataset.Group) pipeline.SplitterFn[dataset.Record] {
	match := dataset.InGroup(g)

	return func(r dataset.Record) (bool, error) {
		return match(r), nil
	}
}
