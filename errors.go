package threadpool

import "fmt"

// Common errors returned by the pool and the queue.
var (
	// ErrPoolShutdown is returned when attempting to submit a job to a pool
	// whose acceptance gate has been closed by Shutdown. Once shutdown has
	// begun, no new jobs are admitted.
	//
	// Example:
	//  pool.Shutdown(true)
	//  err := pool.Submit(job, arg)
	//  if errors.Is(err, threadpool.ErrPoolShutdown) {
	//      log.Println("cannot submit: pool is shutting down")
	//  }
	ErrPoolShutdown = &PoolError{msg: "pool is shutdown"}

	// ErrQueueFull is returned by Submit when the ring is saturated. The
	// caller can retry, drop the job, or switch to SubmitBlocking for
	// backpressure.
	//
	// Example:
	//  if errors.Is(pool.Submit(job, arg), threadpool.ErrQueueFull) {
	//      // apply backpressure
	//      err = pool.SubmitBlocking(job, arg)
	//  }
	ErrQueueFull = &PoolError{msg: "queue is full"}

	// ErrNilJob is returned when submitting a nil function. The nil
	// function is reserved for the pool's internal stop signal.
	ErrNilJob = &PoolError{msg: "job function is nil"}

	// ErrQueueClosed is returned by MPMCQueue.DequeueWait after the queue
	// has been closed. The pool handles it internally; it reaches user code
	// only when the queue is used standalone.
	ErrQueueClosed = &PoolError{msg: "queue is closed"}
)

// PoolError represents an error produced by the pool or the queue.
//
// PoolError implements the error interface and supports unwrapping via
// errors.Unwrap, so the sentinel values above compose with errors.Is.
type PoolError struct {
	msg string // Human-readable error message
	err error  // Underlying error (if any)
}

// Error returns a formatted error message.
// If an underlying error exists, it is included in the output.
func (e *PoolError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("threadpool: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("threadpool: %s", e.msg)
}

// Unwrap returns the underlying error, allowing use with errors.Is and
// errors.As.
func (e *PoolError) Unwrap() error {
	return e.err
}

// errInvalidConfig creates an error for invalid pool configuration.
// This is returned during pool creation when validation fails.
func errInvalidConfig(msg string) error {
	return &PoolError{msg: "invalid config: " + msg}
}
