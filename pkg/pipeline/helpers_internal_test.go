package pipeline

import (
	"context"
	"testing"

	"github.com/askiada/go-abtest/pkg/pipeline/model"
)

func createInputChan(t *testing.T, total int) chan int {
	t.Helper()

	inputChan := make(chan int)

	go func() {
		defer close(inputChan)

		for i := range total {
			inputChan <- i
		}
	}()

	return inputChan
}

func createInputChanWithCancel(t *testing.T, total int, offset int, cancel context.CancelFunc) chan int {
	t.Helper()

	inputChan := make(chan int)

	go func() {
		defer close(inputChan)

		for i := range total {
			if i == offset {
				cancel()
			}

			inputChan <- i
		}
	}()

	return inputChan
}

func processOutputChan(t *testing.T, output <-chan int) []int {
	t.Helper()

	res := []int{}

	for out := range output {
		res = append(res, out)
	}

	return res
}

func newTestStep(name string, output chan int, concurrent int) *model.Step[int] {
	return &model.Step[int]{
		Output:  output,
		Details: &model.StepInfo{Name: name, Concurrent: concurrent},
	}
}

func isEven(_ context.Context, i int) (bool, error) {
	return i%2 == 0, nil
}
