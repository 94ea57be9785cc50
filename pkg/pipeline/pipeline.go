package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-abtest/pkg/pipeline/model"
)

// Pipeline is a pipeline of steps.
type Pipeline struct {
	ctx       context.Context
	cancel    context.CancelFunc
	errcList  *errorChans
	opts      []model.PipelineOption
	startTime time.Time
}

// New creates a new pipeline. Steps added to it start as soon as they are added and
// stop when ctx is done.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	dCtx, cancel := context.WithCancel(ctx)
	pipe := &Pipeline{
		ctx:       dCtx,
		cancel:    cancel,
		errcList:  &errorChans{},
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			cancel()

			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// waitForPipeline waits for results from all error channels.
// It returns early on the first error.
func waitForPipeline(errs ...*errorChan) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}

	return nil
}

// Run waits for every step to finish and returns the first error.
// The remaining steps are cancelled when an error occurs.
func (p *Pipeline) Run() error {
	defer p.cancel()

	err := waitForPipeline(p.errcList.list...)
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

func (p *Pipeline) prepareStep(parents []*model.StepInfo, step *model.StepInfo) error {
	for _, opt := range p.opts {
		err := opt.PrepareStep(parents, step)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare step %s", step.Name)
		}
	}

	return nil
}

func (p *Pipeline) onStepOutput(parent, step *model.StepInfo, emitted int, iteration, computation time.Duration) error {
	for _, opt := range p.opts {
		err := opt.OnStepOutput(parent, step, emitted, iteration, computation)
		if err != nil {
			return errors.Wrapf(err, "unable to run output hook of step %s", step.Name)
		}
	}

	return nil
}

func (p *Pipeline) afterStep(step *model.StepInfo) error {
	for _, opt := range p.opts {
		err := opt.AfterStep(step, time.Since(p.startTime))
		if err != nil {
			return errors.Wrapf(err, "unable to run after hook of step %s", step.Name)
		}
	}

	return nil
}

// detailsOf returns the descriptor of a step, naming steps built outside of the
// pipeline "input".
func detailsOf[O any](step *model.Step[O]) *model.StepInfo {
	if step.Details == nil {
		step.Details = &model.StepInfo{Name: "input"}
	}

	return step.Details
}
