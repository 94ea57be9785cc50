package pipeline

import (
	"context"
	"time"

	"github.com/askiada/go-abtest/pkg/pipeline/model"
)

func runSink[I any](ctx context.Context, pipe *Pipeline, input *model.Step[I], step *model.StepInfo, sinkFn func(ctx context.Context, input I) error) error {
	for {
		// a cancelled context wins over a ready input
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}
			startFn := time.Now()
			err := sinkFn(ctx, in)
			if err != nil {
				return err
			}
			endFn := time.Since(startFn)

			err = pipe.onStepOutput(input.Details, step, 0, time.Since(start)-endFn, endFn)
			if err != nil {
				return err
			}
		}
	}
}

// AddSink adds a step consuming every element of input with sinkFn.
func AddSink[I any](pipe *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	if pipe == nil {
		return ErrPipelineMustBeSet
	}
	if input == nil {
		return ErrInputMustBeSet
	}
	step := &model.StepInfo{
		Type:       model.SinkStepType,
		Name:       name,
		Concurrent: 1,
	}

	err := pipe.prepareStep([]*model.StepInfo{detailsOf(input)}, step)
	if err != nil {
		return err
	}

	errC := make(chan error, 1)
	pipe.errcList.add(newErrorChan(name, errC))

	go func() {
		defer close(errC)
		err := runSink(pipe.ctx, pipe, input, step, sinkFn)
		if err != nil {
			errC <- err

			return
		}
		err = pipe.afterStep(step)
		if err != nil {
			errC <- err
		}
	}()

	return nil
}
