// Package threadpool provides a bounded, lock-free MPMC job queue and a
// fixed-size worker pool built on top of it.
//
// The queue is Vyukov's sequence-numbered ring: every slot carries a
// monotonically advancing sequence number that encodes whether the slot is
// writable or readable for a given position, which makes enqueue and the
// slot-acquisition half of dequeue lock-free for any number of producers
// and consumers. A counting semaphore lets consumers block while the ring
// is empty instead of spinning.
//
// The pool owns the queue and a fixed set of worker goroutines. Jobs are
// fire-and-forget: a function plus an opaque argument, no result channel,
// no cancellation. Shutdown is ordered and loss-free: the acceptance gate
// closes, outstanding jobs optionally drain, and each worker stops on a
// poison pill enqueued behind any remaining work.
//
// # Quick start
//
//	pool, err := threadpool.New(
//	    threadpool.WithNumWorkers(4),
//	    threadpool.WithQueueCapacity(1024),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Shutdown(true)
//
//	var count atomic.Int64
//	for i := 0; i < 100; i++ {
//	    err := pool.Submit(func(arg any) {
//	        count.Add(arg.(int64))
//	    }, int64(1))
//	    if errors.Is(err, threadpool.ErrQueueFull) {
//	        // ring saturated; retry, drop, or block
//	    }
//	}
//
//	pool.Wait()
//
// # Submission
//
// Submit never blocks: it reports ErrQueueFull when the ring is saturated
// so the caller decides what backpressure means. SubmitBlocking spins
// (with scheduler yields) until space frees up and fails only for a nil
// function or when the pool is shutting down. If a job is expected to be faster to run than to
// queue, neither call is the bottleneck; if producers outrun consumers,
// size the ring accordingly.
//
// # Ordering
//
// Jobs are delivered in the order producers win their position on the
// ring, so two submissions from the same goroutine start in program
// order (subject to worker parallelism); completion order is not defined.
//
// # Shutdown
//
// Shutdown(true) waits for quiescence before stopping workers: every job
// admitted before the call runs exactly once. Shutdown(false) skips the
// wait, but jobs already in the ring still run: workers drain until they
// pull a poison pill, and the pills are enqueued behind remaining work.
// Submissions racing with Shutdown get ErrPoolShutdown once the gate is
// observed closed; stop submitting before initiating shutdown.
//
// # Thread safety
//
// All exported methods are safe for concurrent use. Wait is meant for a
// controlling goroutine that has ceased submission; calling Shutdown from
// inside a job deadlocks the draining worker and is not supported.
package threadpool
