package threadpool

import (
	"runtime"
	"sync/atomic"
	"testing"
)

// ============================================================================
// Queue Benchmarks
// ============================================================================

func BenchmarkQueue_EnqueueDequeue(b *testing.B) {
	q := NewMPMCQueue(1024)
	noop := func(any) {}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.TryEnqueue(Job{Func: noop, Arg: i})
		q.DequeueWait()
	}
}

func BenchmarkQueue_ConcurrentEnqueue(b *testing.B) {
	q := NewMPMCQueue(1 << 16)
	noop := func(any) {}

	// One drainer keeps the ring from saturating.
	done := make(chan struct{})
	go func() {
		for {
			if _, err := q.DequeueWait(); err != nil {
				close(done)
				return
			}
		}
	}()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for !q.TryEnqueue(Job{Func: noop}) {
				runtime.Gosched()
			}
		}
	})
	b.StopTimer()

	q.Close()
	<-done
}

// ============================================================================
// Pool Benchmarks
// ============================================================================

func BenchmarkPool_Submit_Instant(b *testing.B) {
	pool, _ := New(
		WithNumWorkers(runtime.NumCPU()),
		WithQueueCapacity(1024),
	)
	defer pool.Shutdown(true)

	var counter atomic.Int64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for {
			if err := pool.Submit(incrementJob, &counter); err == nil {
				break
			}
			runtime.Gosched()
		}
	}
	pool.Wait()

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "jobs/sec")
}

func BenchmarkPool_SubmitBlocking_Instant(b *testing.B) {
	pool, _ := New(
		WithNumWorkers(runtime.NumCPU()),
		WithQueueCapacity(1024),
	)
	defer pool.Shutdown(true)

	var counter atomic.Int64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.SubmitBlocking(incrementJob, &counter)
	}
	pool.Wait()

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "jobs/sec")
}

func BenchmarkPool_Submit_Parallel(b *testing.B) {
	pool, _ := New(
		WithNumWorkers(runtime.NumCPU()),
		WithQueueCapacity(1<<14),
	)
	defer pool.Shutdown(true)

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for {
				if err := pool.Submit(incrementJob, &counter); err == nil {
					break
				}
				runtime.Gosched()
			}
		}
	})
	pool.Wait()
}
