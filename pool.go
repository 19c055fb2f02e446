package threadpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Pool executes fire-and-forget jobs on a fixed set of worker goroutines
// that drain a shared bounded MPMC ring.
//
// Lifecycle: a pool is created running and accepting. Shutdown closes the
// acceptance gate, optionally drains outstanding jobs, stops every worker
// with a poison pill, and joins them. After Shutdown returns,
// Submit/SubmitBlocking simply report ErrPoolShutdown, a repeated Shutdown
// returns at once, and IsShutdown, NumWorkers and Stats keep reporting the
// final state.
type Pool struct {
	config  Config
	queue   *MPMCQueue
	workers []*worker
	wg      sync.WaitGroup

	// done is closed once shutdown has fully completed; late Shutdown
	// callers block on it instead of re-running the protocol.
	done chan struct{}

	_ cpu.CacheLinePad

	// running tells workers whether a spurious dequeue wake means "retry"
	// or "exit". Workers consult it only when DequeueWait errors.
	running atomic.Bool

	// accepting gates Submit and SubmitBlocking. Cleared on Shutdown entry.
	accepting atomic.Bool

	_ cpu.CacheLinePad

	// queued counts jobs admitted to the ring but not yet fully retired by
	// a worker. It is incremented after a successful enqueue, so a fast
	// worker can retire a job before the increment lands; the count then
	// dips below zero and recovers. Wait compares against zero exactly.
	queued atomic.Int64

	_ cpu.CacheLinePad

	// busy counts workers currently inside a job function.
	busy atomic.Int64

	_ cpu.CacheLinePad

	metrics poolMetrics
}

// poolMetrics tracks pool-wide statistics.
type poolMetrics struct {
	submitted atomic.Uint64
	completed atomic.Uint64
	rejected  atomic.Uint64
	panicked  atomic.Uint64
}

// New creates a pool with the given options and starts its workers.
// It returns an error if the configuration is invalid.
//
// Example:
//
//	pool, err := threadpool.New(
//	    threadpool.WithNumWorkers(4),
//	    threadpool.WithQueueCapacity(1024),
//	)
func New(opts ...Option) (*Pool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.NumWorkers == 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = defaultConfig().QueueCapacity
	}

	p := &Pool{
		config:  cfg,
		queue:   NewMPMCQueue(cfg.QueueCapacity),
		workers: make([]*worker, cfg.NumWorkers),
		done:    make(chan struct{}),
	}
	p.running.Store(true)
	p.accepting.Store(true)

	for i := range p.workers {
		p.workers[i] = &worker{id: i, pool: p}
	}

	for _, w := range p.workers {
		p.wg.Add(1)
		go func(wk *worker) {
			defer p.wg.Done()
			wk.run()
		}(w)
	}

	return p, nil
}

// Submit enqueues a job without blocking.
//
// Returns ErrNilJob for a nil function, ErrPoolShutdown if the pool is no
// longer accepting, and ErrQueueFull if the ring is saturated. The job
// runs at most once; on any error it does not run at all.
func (p *Pool) Submit(fn JobFunc, arg any) error {
	if fn == nil {
		return ErrNilJob
	}
	if !p.accepting.Load() {
		return ErrPoolShutdown
	}

	if !p.queue.TryEnqueue(Job{Func: fn, Arg: arg}) {
		p.metrics.rejected.Add(1)
		return ErrQueueFull
	}

	p.queued.Add(1)
	p.metrics.submitted.Add(1)
	return nil
}

// SubmitBlocking enqueues a job, waiting for ring space if necessary.
// It fails only if the function is nil or the pool is no longer accepting.
//
// The acceptance gate is checked at entry only: a SubmitBlocking that is
// already spinning when Shutdown begins races the poison pills for ring
// space, and a job that lands behind every pill is never executed. Stop
// submitting before initiating Shutdown.
func (p *Pool) SubmitBlocking(fn JobFunc, arg any) error {
	if fn == nil {
		return ErrNilJob
	}
	if !p.accepting.Load() {
		return ErrPoolShutdown
	}

	p.queue.EnqueueBlocking(Job{Func: fn, Arg: arg})
	p.queued.Add(1)
	p.metrics.submitted.Add(1)
	return nil
}

// Wait blocks until the pool is quiescent: no job queued and no worker
// executing one. It is intended for a controlling goroutine that has
// stopped submitting; it makes no fairness promise against concurrent
// submitters, and a job that never returns stalls it forever.
//
// Example:
//
//	pool.Submit(job1, nil)
//	pool.Submit(job2, nil)
//	pool.Wait() // both jobs have finished
func (p *Pool) Wait() {
	spins := 0
	for p.queued.Load() != 0 || p.busy.Load() != 0 {
		spins++
		if spins > p.config.SpinCount {
			runtime.Gosched()
		}
	}
}

// Shutdown stops the pool. If waitForJobs is true, every job admitted
// before the call completes before workers are stopped. If false, jobs
// still in the ring are nevertheless executed: each worker keeps draining
// until it pulls a poison pill, and the pills sit behind any remaining
// real jobs.
//
// Multiple calls are safe; later calls block until shutdown completes.
func (p *Pool) Shutdown(waitForJobs bool) {
	// First caller closes the acceptance gate and owns the protocol.
	if !p.accepting.CompareAndSwap(true, false) {
		<-p.done
		return
	}

	if waitForJobs {
		p.Wait()
	}

	// One pill per worker. Blocking enqueue: a momentarily full ring is
	// drained by the still-running workers until every pill lands.
	for range p.workers {
		p.queue.EnqueueBlocking(Job{})
	}

	p.running.Store(false)
	p.wg.Wait()
	p.queue.Close()
	close(p.done)
}

// IsShutdown reports whether Shutdown has been initiated.
func (p *Pool) IsShutdown() bool {
	return !p.accepting.Load()
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return len(p.workers)
}
