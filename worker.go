package threadpool

import (
	"log"
	"runtime"
	"sync/atomic"
)

// worker is a single pool goroutine.
type worker struct {
	id   int
	pool *Pool

	// Metrics
	jobsExecuted atomic.Uint64
}

// run is the main worker loop. It exits on a poison pill, or on a dequeue
// error once the pool is no longer running.
func (w *worker) run() {
	if h := w.pool.config.OnWorkerStart; h != nil {
		h(w.id)
	}

	for {
		job, err := w.pool.queue.DequeueWait()
		if err != nil {
			if !w.pool.running.Load() {
				break
			}
			continue
		}

		// Poison pill: exit without touching queued, pills were never
		// counted there.
		if job.Func == nil {
			break
		}

		w.pool.busy.Add(1)
		w.executeJob(job)
		w.pool.busy.Add(-1)
		w.pool.queued.Add(-1)
	}

	if h := w.pool.config.OnWorkerStop; h != nil {
		h(w.id)
	}
}

// executeJob runs a job with panic recovery. A panicking job is counted in
// the panicked metric, not as executed or completed; the worker survives
// and keeps draining.
func (w *worker) executeJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			w.pool.metrics.panicked.Add(1)
			if h := w.pool.config.PanicHandler; h != nil {
				h(r)
			} else {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				log.Printf("threadpool: job panic recovered: %v\n%s", r, buf[:n])
			}
		}
	}()

	job.Func(job.Arg)

	w.jobsExecuted.Add(1)
	w.pool.metrics.completed.Add(1)
}
