package parallel

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestMapReducePreservesOrder(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	sum := MapReduce(context.Background(), inputs, DefaultPoolConfig(),
		func(ctx context.Context, n int) int { return n * n },
		func(mapped []int) int {
			for i, m := range mapped {
				want := inputs[i] * inputs[i]
				if m != want {
					t.Errorf("mapped[%d] = %d, want %d", i, m, want)
				}
			}
			total := 0
			for _, m := range mapped {
				total += m
			}
			return total
		})
	if sum != 204 {
		t.Errorf("sum = %d, want 204", sum)
	}
}

func TestMapReduceEmptyInput(t *testing.T) {
	got := MapReduce(context.Background(), nil, DefaultPoolConfig(),
		func(ctx context.Context, n int) int { return n },
		func(mapped []int) int { return len(mapped) })
	if got != 0 {
		t.Errorf("got %d", got)
	}
}

func TestMapReduceBoundsWorkers(t *testing.T) {
	var active, peak int32
	inputs := make([]int, 64)
	cfg := DefaultPoolConfig().WithWorkers(2)
	MapReduce(context.Background(), inputs, cfg,
		func(ctx context.Context, n int) int {
			cur := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			atomic.AddInt32(&active, -1)
			return n
		},
		func(mapped []int) int { return len(mapped) })
	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("peak concurrency %d exceeds bound 2", p)
	}
}

func TestWithWorkersIgnoresNonPositive(t *testing.T) {
	base := DefaultPoolConfig()
	if got := base.WithWorkers(0); got.MaxWorkers != base.MaxWorkers {
		t.Errorf("WithWorkers(0) changed bound to %d", got.MaxWorkers)
	}
	if got := base.WithWorkers(3); got.MaxWorkers != 3 {
		t.Errorf("WithWorkers(3) = %d", got.MaxWorkers)
	}
}

func TestForEachVisitsEveryInput(t *testing.T) {
	var count int32
	ForEach(context.Background(), []string{"a", "b", "c"}, DefaultPoolConfig(),
		func(ctx context.Context, s string) { atomic.AddInt32(&count, 1) })
	if count != 3 {
		t.Errorf("visited %d inputs", count)
	}
}
