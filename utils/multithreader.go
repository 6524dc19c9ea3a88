package utils

import (
	"runtime"
	"sync"
)

// MultiThreadErr runs an operation on each integer in a range, in parallel, and returns once f
// has returned for every value in the range. Every value is run even if some fail; the error for
// the lowest value is returned.
//
// the range includes 'start' and excludes 'end'
// 'f' is the function that should be run for each value in the range
// 'opsPerThread' is the number of operations that each goroutine will handle before requesting another set
// 'threadsPerCPU' is the number of goroutines created for each CPU
func MultiThreadErr(start, end int, f func(int) error, opsPerThread, threadsPerCPU int) error {
	if end <= start {
		return nil
	}

	if opsPerThread < 1 {
		opsPerThread = 1
	}

	numThreads := runtime.NumCPU() * threadsPerCPU
	if max := (end - start + opsPerThread - 1) / opsPerThread; numThreads > max {
		numThreads = max
	}
	if numThreads < 1 {
		numThreads = 1
	}

	index := start
	var indexMux sync.Mutex

	errs := make([]error, end-start)

	var wg sync.WaitGroup

	wg.Add(numThreads)
	for thread := 0; thread < numThreads; thread++ {
		go func() {
			defer wg.Done()

			for {
				indexMux.Lock()
				if index >= end {
					indexMux.Unlock()
					break
				}

				i := index
				index += opsPerThread
				indexMux.Unlock()

				e := i + opsPerThread

				if e > end {
					e = end
				}

				for ; i < e; i++ {
					errs[i-start] = f(i)
				}
			}
		}()
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
