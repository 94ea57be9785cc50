package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-abtest/pkg/pipeline/model"
)

// FilterFn decides whether an element is kept.
type FilterFn[I any] func(ctx context.Context, input I) (bool, error)

func sequentialFilterFn[I any](ctx context.Context, pipe *Pipeline, goIdx int, input, output *model.Step[I], filterFn FilterFn[I]) error {
	for {
		// a cancelled context wins over a ready input
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "go routine %d", goIdx)
		}
		start := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}
			startFn := time.Now()
			keep, err := filterFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}
			endFn := time.Since(startFn)

			emitted := 0
			if keep {
				// we check the context again to make sure all go routines currently running
				// stop to add new elements to the pipeline
				select {
				case <-ctx.Done():
					return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
				case output.Output <- in:
					emitted = 1
				}
			}

			err = pipe.onStepOutput(input.Details, output.Details, emitted, time.Since(start)-endFn, endFn)
			if err != nil {
				return err
			}
		}
	}
}

func concurrentFilterFn[I any](ctx context.Context, pipe *Pipeline, input, output *model.Step[I], filterFn FilterFn[I]) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(output.Details.Concurrent)
	// each consumer stops as soon as an error happens
	for goIdx := range output.Details.Concurrent {
		errGrp.Go(func() error {
			return sequentialFilterFn(dCtx, pipe, goIdx, input, output, filterFn)
		})
	}

	return errGrp.Wait()
}

func runFilter[I any](ctx context.Context, pipe *Pipeline, input, output *model.Step[I], filterFn FilterFn[I]) error {
	if output.Details.Concurrent <= 1 {
		output.Details.Concurrent = 1

		return sequentialFilterFn(ctx, pipe, 0, input, output, filterFn)
	}

	return concurrentFilterFn(ctx, pipe, input, output, filterFn)
}

// AddStepFilter adds a step that forwards the elements for which filterFn returns true
// and drops the others.
func AddStepFilter[I any](p *Pipeline, name string, input *model.Step[I], filterFn FilterFn[I], opts ...StepOption[I]) (*model.Step[I], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}

	step := &model.Step[I]{
		Details: &model.StepInfo{
			Type:       model.FilterStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan I),
	}
	for _, opt := range opts {
		opt(step)
	}

	err := p.prepareStep([]*model.StepInfo{detailsOf(input)}, step.Details)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	p.errcList.add(newErrorChan(name, errC))

	go func() {
		defer func() {
			close(step.Output)
			close(errC)
		}()
		err := runFilter(p.ctx, p, input, step, filterFn)
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
