package threadpool

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// JobFunc is the procedure a job executes. The argument is whatever was
// passed at submission; the pool never inspects it.
type JobFunc func(arg any)

// Job is an immutable pair of a procedure and its opaque argument.
// A Job with a nil Func is reserved as the poison pill the pool uses to
// stop workers; never enqueue one yourself.
type Job struct {
	Func JobFunc
	Arg  any
}

// slot is one cell of the ring. seq is the only synchronization variable:
// a slot is writable for the producer at position p when seq == p, and
// readable for the consumer at position p when seq == p+1. The job payload
// is published by the atomic store on seq and read after the matching load.
type slot struct {
	seq atomic.Uint64
	job Job
}

// MPMCQueue is a bounded, lock-free multi-producer multi-consumer queue
// (Vyukov's sequence-numbered ring). Enqueue is lock-free; dequeue blocks
// on a counting semaphore while the ring is empty and is lock-free once a
// job is available.
//
// enqueuePos and dequeuePos only ever increment. Unsigned wraparound is
// expected and harmless: the algorithm depends only on the difference
// between a slot's sequence number and the position that addresses it.
type MPMCQueue struct {
	_ cpu.CacheLinePad

	// enqueuePos is claimed by producers via CAS.
	enqueuePos atomic.Uint64
	_          cpu.CacheLinePad

	// dequeuePos is claimed by consumers via CAS.
	dequeuePos atomic.Uint64
	_          cpu.CacheLinePad

	slots    []slot
	mask     uint64
	capacity uint64

	// available counts jobs enqueued but not yet dequeued.
	available *semaphore
}

// goschedEvery bounds how long a contended CAS loop spins before ceding
// the processor to the scheduler.
const goschedEvery = 64

// NewMPMCQueue creates a queue with at least the requested capacity.
// The capacity is rounded up to the next power of two, minimum 2.
func NewMPMCQueue(capacity int) *MPMCQueue {
	if capacity < 2 {
		capacity = 2
	}
	n := uint64(nextPowerOfTwo(capacity))

	q := &MPMCQueue{
		slots:     make([]slot, n),
		mask:      n - 1,
		capacity:  n,
		available: newSemaphore(0),
	}

	// Slot i starts writable for position i.
	for i := uint64(0); i < n; i++ {
		q.slots[i].seq.Store(i)
	}

	return q
}

// TryEnqueue publishes a job or reports that the ring is full.
// Safe for any number of concurrent producers. Full is the only failure
// mode; every other stale observation is transient and resolved by
// rereading the producer cursor.
func (q *MPMCQueue) TryEnqueue(job Job) bool {
	pos := q.enqueuePos.Load()
	for {
		s := &q.slots[pos&q.mask]

		// Signed difference distinguishes "full" (producers a whole lap
		// ahead of consumers, diff < 0) from "another producer just won
		// this position" (diff > 0, retry with a fresh cursor).
		diff := int64(s.seq.Load()) - int64(pos)

		switch {
		case diff == 0:
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				s.job = job
				s.seq.Store(pos + 1)
				q.available.post()
				return true
			}
			pos = q.enqueuePos.Load()
		case diff < 0:
			return false
		default:
			pos = q.enqueuePos.Load()
		}
	}
}

// EnqueueBlocking publishes a job, spinning while the ring is full.
// It never fails: a few hot retries absorb momentary contention, then the
// backoff grows exponentially up to a cap, ceding the processor so
// consumers can drain the ring.
//
// The loop is not interruptible. Do not call this after initiating
// Shutdown on the owning pool: with a full ring and no consumers it can
// spin for an arbitrarily long time.
func (q *MPMCQueue) EnqueueBlocking(job Job) {
	attempt := 0
	for !q.TryEnqueue(job) {
		attempt++
		switch {
		case attempt < 4:
			// Hot retry; momentary contention resolves fastest unaided.
		case attempt < 8:
			for i := 0; i < 1<<(attempt-4); i++ {
				runtime.Gosched()
			}
		default:
			for i := 0; i < 8; i++ {
				runtime.Gosched()
			}
		}
	}
}

// DequeueWait blocks until a job is available, then removes and returns
// it. Safe for any number of concurrent consumers.
//
// A successful semaphore wait guarantees a matching enqueue has published;
// the CAS loop therefore never reports empty. It only retries while
// concurrent consumers fight over adjacent positions, or while the winning
// enqueuer's seq store is about to land.
//
// The only error is ErrQueueClosed, after Close.
func (q *MPMCQueue) DequeueWait() (Job, error) {
	if err := q.available.wait(); err != nil {
		return Job{}, err
	}

	spins := 0
	pos := q.dequeuePos.Load()
	for {
		s := &q.slots[pos&q.mask]
		diff := int64(s.seq.Load()) - int64(pos+1)

		if diff == 0 {
			if q.dequeuePos.CompareAndSwap(pos, pos+1) {
				job := s.job
				s.job = Job{}

				// Free the slot for the next lap: the producer that
				// arrives at pos+capacity finds seq equal to its position.
				s.seq.Store(pos + q.capacity)
				return job, nil
			}
		}

		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
		pos = q.dequeuePos.Load()
	}
}

// Close releases consumers blocked in DequeueWait; they return
// ErrQueueClosed. The caller guarantees no goroutine is inside TryEnqueue
// or mid-dequeue when Close is called.
func (q *MPMCQueue) Close() {
	q.available.close()
}

// Capacity returns the rounded power-of-two capacity.
func (q *MPMCQueue) Capacity() int {
	return int(q.capacity)
}

// Len returns a snapshot of the number of resident jobs. It may be stale
// the moment it returns; use it for monitoring, not for control flow.
func (q *MPMCQueue) Len() int {
	tail := q.enqueuePos.Load()
	head := q.dequeuePos.Load()
	if tail < head {
		return 0
	}
	return int(tail - head)
}
