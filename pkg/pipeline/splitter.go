package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-abtest/pkg/pipeline/model"
)

// SplitterFn decides whether an element goes to a branch of a splitter.
type SplitterFn[I any] func(input I) (bool, error)

// Splitter holds the branches of a splitter step, one per SplitterFn.
type Splitter[I any] struct {
	mu            sync.Mutex
	currIdx       int
	mainStep      *model.Step[I]
	splittedSteps []*model.Step[I]
	bufferSize    int
	Total         int
}

// Get returns the next branch, in the order of the splitter functions.
func (s *Splitter[I]) Get() (*model.Step[I], bool) {
	s.mu.Lock()
	defer func() {
		s.currIdx++
		s.mu.Unlock()
	}()
	if s.currIdx >= len(s.splittedSteps) {
		return nil, false
	}

	return s.splittedSteps[s.currIdx], true
}

func runSplitter[I any](ctx context.Context, pipe *Pipeline, input *model.Step[I], splitter *Splitter[I], fns []SplitterFn[I]) error {
	for {
		// a cancelled context wins over a ready input
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-input.Output:
			if !ok {
				return nil
			}
			startFn := time.Now()
			emitted := 0
			for i, fn := range fns {
				match, err := fn(entry)
				if err != nil {
					return errors.Wrapf(err, "unable to run splitter function %d", i)
				}
				if !match {
					continue
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case splitter.splittedSteps[i].Output <- entry:
					emitted++
				}
			}
			endFn := time.Since(startFn)

			err := pipe.onStepOutput(input.Details, splitter.mainStep.Details, emitted, time.Since(start)-endFn, endFn)
			if err != nil {
				return err
			}
		}
	}
}

// AddSplitterFn adds a splitter sending every element to each branch whose function
// returns true. An element matching no function is dropped.
func AddSplitterFn[I any](p *Pipeline, name string, input *model.Step[I], fns []SplitterFn[I], opts ...SplitterOption[I]) (*Splitter[I], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}
	total := len(fns)
	if total == 0 {
		return nil, ErrSplitterTotal
	}
	splitter := &Splitter[I]{
		Total: total,
		mainStep: &model.Step[I]{
			Details: &model.StepInfo{
				Type:       model.SplitterStepType,
				Name:       name,
				Concurrent: 1,
			},
		},
	}
	for _, opt := range opts {
		opt(splitter)
	}
	splitter.mainStep.Details.BufferSize = splitter.bufferSize

	// branches share the descriptor of the splitter so downstream steps link to it
	splitter.splittedSteps = make([]*model.Step[I], total)
	for i := range total {
		splitter.splittedSteps[i] = &model.Step[I]{
			Details: splitter.mainStep.Details,
			Output:  make(chan I, splitter.bufferSize),
		}
	}

	err := p.prepareStep([]*model.StepInfo{detailsOf(input)}, splitter.mainStep.Details)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	p.errcList.add(newErrorChan(name, errC))

	go func() {
		defer func() {
			for _, step := range splitter.splittedSteps {
				close(step.Output)
			}
			close(errC)
		}()
		err := runSplitter(p.ctx, p, input, splitter, fns)
		if err != nil {
			errC <- err

			return
		}
		err = p.afterStep(splitter.mainStep.Details)
		if err != nil {
			errC <- err
		}
	}()

	return splitter, nil
}
