package threadpool

// Config contains all configuration options for the pool.
type Config struct {
	// NumWorkers is the number of worker goroutines.
	// If 0, defaults to runtime.NumCPU().
	NumWorkers int

	// QueueCapacity is the requested capacity of the shared job ring.
	// It is rounded up to the next power of two, minimum 2.
	// If 0, defaults to 1024.
	QueueCapacity int

	// SpinCount is the number of iterations a lifecycle spin loop (Wait,
	// shutdown quiescence) runs hot before yielding to the scheduler.
	// Defaults to 30.
	SpinCount int

	// PanicHandler is called with the recovered value when a job panics.
	// If nil, the panic and its stack are written to the standard logger.
	PanicHandler func(any)

	// OnWorkerStart is called by each worker goroutine as it starts.
	// Useful for initialization, logging, or tracing.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called by each worker goroutine before it exits.
	// Useful for cleanup, logging, or tracing.
	OnWorkerStop func(workerID int)
}

// Option configures a Pool.
type Option func(*Config)

// WithNumWorkers sets the number of worker goroutines.
func WithNumWorkers(n int) Option {
	return func(c *Config) { c.NumWorkers = n }
}

// WithQueueCapacity sets the requested ring capacity. Any positive value
// works; it is rounded up to a power of two.
func WithQueueCapacity(n int) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithSpinCount sets how long lifecycle spin loops run hot before
// yielding. Higher values reduce latency at the cost of CPU.
func WithSpinCount(n int) Option {
	return func(c *Config) { c.SpinCount = n }
}

// WithPanicHandler sets the handler invoked when a job panics.
func WithPanicHandler(h func(any)) Option {
	return func(c *Config) { c.PanicHandler = h }
}

// WithWorkerHooks sets the worker start and stop callbacks.
func WithWorkerHooks(onStart, onStop func(workerID int)) Option {
	return func(c *Config) {
		c.OnWorkerStart = onStart
		c.OnWorkerStop = onStop
	}
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() Config {
	return Config{
		NumWorkers:    0, // resolved to runtime.NumCPU() at creation
		QueueCapacity: 1024,
		SpinCount:     30,
	}
}

// validate checks the configuration and returns an error if invalid.
func (c *Config) validate() error {
	if c.NumWorkers < 0 {
		return errInvalidConfig("NumWorkers must be >= 0")
	}

	if c.QueueCapacity < 0 {
		return errInvalidConfig("QueueCapacity must be >= 0")
	}

	if c.SpinCount < 0 {
		return errInvalidConfig("SpinCount must be >= 0")
	}

	return nil
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
