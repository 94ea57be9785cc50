package pipeline

import (
	"context"
	"time"

	"github.com/askiada/go-abtest/pkg/pipeline/model"
)

// forwardRoot pushes the elements produced by the root function downstream.
// Once ctx is done the remaining elements are drained and discarded so the root
// function can return even if it does not watch ctx.
func forwardRoot[O any](ctx context.Context, pipe *Pipeline, rootChan <-chan O, step *model.Step[O]) error {
	var firstErr error
	for {
		start := time.Now()
		entry, ok := <-rootChan
		if !ok {
			return firstErr
		}
		if firstErr != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			firstErr = err

			continue
		}
		select {
		case <-ctx.Done():
			firstErr = ctx.Err()
		case step.Output <- entry:
			err := pipe.onStepOutput(model.StartStep.Details, step.Details, 1, time.Since(start), 0)
			if err != nil {
				firstErr = err
			}
		}
	}
}

// AddRootStep adds the step producing the elements of the pipeline.
// stepFn must stop sending once ctx is done.
func AddRootStep[O any](p *Pipeline, name string, stepFn func(ctx context.Context, rootChan chan<- O) error, opts ...StepOption[O]) (*model.Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.RootStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(step)
	}

	err := p.prepareStep([]*model.StepInfo{model.StartStep.Details}, step.Details)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 2)
	p.errcList.add(newErrorChan(name, errC))

	rootChan := make(chan O)
	fnDone := make(chan struct{})

	go func() {
		defer close(fnDone)
		defer close(rootChan)
		err := stepFn(p.ctx, rootChan)
		if err != nil {
			errC <- err
		}
	}()

	go func() {
		defer func() {
			close(step.Output)
			<-fnDone
			close(errC)
		}()
		err := forwardRoot(p.ctx, p, rootChan, step)
		if err != nil {
			errC <- err

			return
		}
		err = p.afterStep(step.Details)
		if err != nil {
			errC <- err
		}
	}()

	return step, nil
}
