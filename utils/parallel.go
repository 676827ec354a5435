package utils

import "sync"

// Result is the settled outcome of one parallel operation.
type Result[T any] struct {
	Value T
	Err   error
}

// Parallel fans out the given operations concurrently and collects every
// outcome in slot order. One failing operation never aborts the others; its
// slot carries the error and a zero value instead.
func Parallel[T any](ops ...func() (T, error)) []Result[T] {
	results := make([]Result[T], len(ops))

	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Add(1)
		go func(i int, op func() (T, error)) {
			defer wg.Done()
			v, err := op()
			results[i] = Result[T]{Value: v, Err: err}
		}(i, op)
	}
	wg.Wait()

	return results
}
