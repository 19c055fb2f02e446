package threadpool

// Stats is a snapshot of pool counters. All values are read with atomic
// loads and without locks, so a snapshot taken during concurrent
// submission may be momentarily inconsistent with itself.
//
// Example:
//
//	stats := pool.Stats()
//	fmt.Printf("completed %d of %d\n", stats.Completed, stats.Submitted)
type Stats struct {
	// Submitted is the total number of jobs admitted to the ring since
	// creation. Rejected jobs are not counted here.
	Submitted uint64

	// Completed is the total number of jobs that finished execution
	// normally. Jobs that panicked are counted in Panicked instead.
	Completed uint64

	// Rejected is the total number of Submit calls that failed with
	// ErrQueueFull.
	Rejected uint64

	// Panicked is the total number of jobs whose panic was recovered.
	Panicked uint64

	// Queued is the number of jobs admitted but not yet retired. It can
	// read negative for an instant while a submission's counter update
	// races the worker that already retired the job.
	Queued int64

	// Busy is the number of workers currently inside a job function.
	Busy int64

	// NumWorkers is the fixed worker count.
	NumWorkers int

	// WorkerStats holds one entry per worker.
	WorkerStats []WorkerStats
}

// WorkerStats contains counters for an individual worker goroutine.
type WorkerStats struct {
	// WorkerID is the worker's index in the pool (0-based).
	WorkerID int

	// JobsExecuted is the number of jobs this worker has completed
	// normally. Jobs that panicked are counted in Stats.Panicked only.
	JobsExecuted uint64
}

// Stats returns a snapshot of pool statistics.
func (p *Pool) Stats() Stats {
	workerStats := make([]WorkerStats, len(p.workers))
	for i, wk := range p.workers {
		workerStats[i] = WorkerStats{
			WorkerID:     i,
			JobsExecuted: wk.jobsExecuted.Load(),
		}
	}

	return Stats{
		Submitted:   p.metrics.submitted.Load(),
		Completed:   p.metrics.completed.Load(),
		Rejected:    p.metrics.rejected.Load(),
		Panicked:    p.metrics.panicked.Load(),
		Queued:      p.queued.Load(),
		Busy:        p.busy.Load(),
		NumWorkers:  len(p.workers),
		WorkerStats: workerStats,
	}
}
