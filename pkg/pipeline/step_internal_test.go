package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

var concurrencyCases = map[string]struct {
	concurrent int
}{
	"sequential":     {concurrent: 1},
	"sequential v2":  {concurrent: 0},
	"concurrent 2":   {concurrent: 2},
	"concurrent 100": {concurrent: 100},
}

func TestFilter(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := newTestStep("input", createInputChan(t, 10), 1)
			output := newTestStep("output", make(chan int), tc.concurrent)
			got := make(chan []int, 1)

			go func() {
				got <- processOutputChan(t, output.Output)
			}()

			go func() {
				defer close(output.Output)
				err := runFilter(ctx, &Pipeline{}, input, output, isEven)
				assert.NoError(t, err)
			}()

			assert.ElementsMatch(t, []int{0, 2, 4, 6, 8}, <-got)
		})
	}
}

func TestFilterKeepsOrderWhenSequential(t *testing.T) {
	t.Parallel()

	input := newTestStep("input", createInputChan(t, 20), 1)
	output := newTestStep("output", make(chan int), 1)
	got := make(chan []int, 1)

	go func() {
		got <- processOutputChan(t, output.Output)
	}()

	go func() {
		defer close(output.Output)
		err := runFilter(t.Context(), &Pipeline{}, input, output, func(context.Context, int) (bool, error) {
			return true, nil
		})
		assert.NoError(t, err)
	}()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, <-got)
}

func TestFilterCancelInput(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := newTestStep("input", createInputChanWithCancel(t, 10, 5, cancel), 1)
			output := newTestStep("output", make(chan int), tc.concurrent)
			done := make(chan struct{})

			go func() {
				processOutputChan(t, output.Output)
				close(done)
			}()

			go func() {
				defer close(output.Output)
				err := runFilter(ctx, &Pipeline{}, input, output, isEven)
				assert.ErrorIs(t, err, context.Canceled)
			}()

			<-done
		})
	}
}

func TestFilterError(t *testing.T) {
	t.Parallel()

	for name, tc := range concurrencyCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			input := newTestStep("input", createInputChan(t, 10), 1)
			output := newTestStep("output", make(chan int), tc.concurrent)
			done := make(chan struct{})

			go func() {
				processOutputChan(t, output.Output)
				close(done)
			}()

			go func() {
				defer close(output.Output)
				err := runFilter(ctx, &Pipeline{}, input, output, func(_ context.Context, i int) (bool, error) {
					if i == 5 {
						return false, assert.AnError
					}

					return true, nil
				})
				assert.ErrorIs(t, err, assert.AnError)
			}()

			<-done
		})
	}
}
