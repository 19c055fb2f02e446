package threadpool

import "sync"

// semaphore is a counting semaphore: post increments the counter and wakes
// one waiter, wait blocks until the counter is positive and decrements it.
// The queue uses it to count jobs that are enqueued but not yet dequeued,
// so consumers can block instead of spinning on an empty ring.
//
// close releases every current and future waiter with ErrQueueClosed. That
// is the only error wait can return; callers treat it as a transient wake
// and consult their own shutdown state.
type semaphore struct {
	mu     sync.Mutex
	cond   *sync.Cond
	count  uint64
	closed bool
}

func newSemaphore(value uint64) *semaphore {
	s := &semaphore{count: value}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// post increments the counter and wakes one waiter. It never blocks.
func (s *semaphore) post() {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	s.cond.Signal()
}

// wait blocks until the counter is positive, then decrements it.
// Returns ErrQueueClosed if the semaphore was closed.
func (s *semaphore) wait() error {
	s.mu.Lock()
	for s.count == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		s.mu.Unlock()
		return ErrQueueClosed
	}
	s.count--
	s.mu.Unlock()
	return nil
}

// close releases all waiters. wait fails from this point on, even if the
// counter is positive; the caller guarantees no consumer still needs it.
func (s *semaphore) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
}
