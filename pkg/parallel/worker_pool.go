// Package parallel provides a bounded fan-out helper for batch work
// outside the engine core. TED kernels and join invocations stay
// single-threaded per their ownership contract; this package only runs
// independent per-item work (such as reading corpus files) across a
// bounded worker set.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// PoolConfig bounds a fan-out.
type PoolConfig struct {
	MaxWorkers int
}

// DefaultPoolConfig sizes the pool to the machine.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxWorkers: runtime.NumCPU()}
}

// WithWorkers returns a copy with the worker bound replaced; n <= 0
// keeps the current bound.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	if n > 0 {
		c.MaxWorkers = n
	}
	return c
}

// MapReduce applies mapFn to every input with at most
// config.MaxWorkers goroutines, preserves input order in the mapped
// slice, and reduces it with reduceFn. Inputs not yet started when ctx
// is cancelled still produce a mapped zero value at their position;
// mapFn should surface cancellation in its own result type if callers
// need to distinguish.
func MapReduce[T any, M any, R any](
	ctx context.Context,
	inputs []T,
	config PoolConfig,
	mapFn func(ctx context.Context, input T) M,
	reduceFn func(mapped []M) R,
) R {
	workers := config.MaxWorkers
	if workers <= 0 {
		workers = DefaultPoolConfig().MaxWorkers
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	mapped := make([]M, len(inputs))
	if len(inputs) > 0 {
		jobs := make(chan int)
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for i := range jobs {
					mapped[i] = mapFn(ctx, inputs[i])
				}
			}()
		}
	feed:
		for i := range inputs {
			select {
			case jobs <- i:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
	}
	return reduceFn(mapped)
}

// ForEach runs fn for every input under the same worker bound, for
// callers with no per-item result to collect.
func ForEach[T any](
	ctx context.Context,
	inputs []T,
	config PoolConfig,
	fn func(ctx context.Context, input T),
) {
	MapReduce(ctx, inputs, config, func(ctx context.Context, input T) struct{} {
		fn(ctx, input)
		return struct{}{}
	}, func([]struct{}) struct{} { return struct{}{} })
}
