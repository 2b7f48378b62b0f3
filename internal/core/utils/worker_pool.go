package utils

import (
	"errors"
	"sync"
)

type CompletedTask[T any] struct {
	Result T
	Error  error
}

// RunInPool drains queue with up to maxWorkers goroutines and closes completed
// once every item has been processed. queue must be closed by the caller.
func RunInPool[In any, Out any](worker func(In) (Out, error), queue chan In, completed chan CompletedTask[Out], maxWorkers int) {
	workers := min(len(queue), max(maxWorkers, 1))

	go func() {
		wg := sync.WaitGroup{}
		wg.Add(workers)

		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()

				for next := range queue {
					res, err := worker(next)
					if err != nil {
						completed <- CompletedTask[Out]{Error: err}
					} else {
						completed <- CompletedTask[Out]{Result: res}
					}
				}
			}()
		}

		wg.Wait()

		close(completed)
	}()
}

type indexed[T any] struct {
	pos   int
	value T
}

// MapInPool applies worker to every item on a pool of goroutines and returns
// the results in input order.
func MapInPool[In any, Out any](items []In, maxWorkers int, worker func(In) (Out, error)) ([]Out, error) {
	queue := make(chan indexed[In], len(items))
	for i, item := range items {
		queue <- indexed[In]{pos: i, value: item}
	}
	close(queue)

	completed := make(chan CompletedTask[indexed[Out]], len(items))
	RunInPool(func(in indexed[In]) (indexed[Out], error) {
		out, err := worker(in.value)
		return indexed[Out]{pos: in.pos, value: out}, err
	}, queue, completed, maxWorkers)

	results := make([]Out, len(items))
	var errs []error
	for task := range completed {
		if task.Error != nil {
			errs = append(errs, task.Error)
			continue
		}
		results[task.Result.pos] = task.Result.value
	}

	return results, errors.Join(errs...)
}
