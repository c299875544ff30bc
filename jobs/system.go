package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrNoHandler is reported for jobs whose kind has no registered handler.
var ErrNoHandler = errors.New("jobs: no handler registered")

// Handler executes a job on a worker goroutine.
type Handler func(ctx context.Context, job Job) (any, error)

// System is a job queue served by a pool of workers.
type System struct {
	workers  int
	handlers [kindCount]Handler

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Job
	closed bool

	resultMu sync.Mutex
	results  []Result

	outstanding atomic.Int64

	group  *errgroup.Group
	cancel context.CancelFunc
}

// New creates a job system with the given number of workers (minimum 1).
func New(workers int) *System {
	if workers < 1 {
		workers = 1
	}
	s := &System{workers: workers}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Handle registers the handler for a job kind.
// Must be called before Start (configure then run pattern).
func (s *System) Handle(kind Kind, h Handler) {
	s.handlers[kind] = h
}

// Start launches the workers. They run until Close is called or ctx ends.
func (s *System) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.group, ctx = errgroup.WithContext(ctx)

	// Wake sleeping workers when the context ends
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.cond.Broadcast()
	}()

	for i := 0; i < s.workers; i++ {
		s.group.Go(func() error {
			s.work(ctx)
			return nil
		})
	}
}

// Enqueue adds a job to the queue. It never blocks on job execution.
// It returns false and drops the job once the system is closed.
func (s *System) Enqueue(job Job) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, job)
	s.outstanding.Add(1)
	s.mu.Unlock()
	s.cond.Signal()
	return true
}

// Drain removes and returns all completed results.
// Called by the UI thread once per frame.
func (s *System) Drain() []Result {
	s.resultMu.Lock()
	defer s.resultMu.Unlock()
	if len(s.results) == 0 {
		return nil
	}
	out := s.results
	s.results = nil
	return out
}

// Outstanding returns the number of jobs queued or running.
func (s *System) Outstanding() int {
	return int(s.outstanding.Load())
}

// Close stops the workers and waits for running jobs to finish.
// Queued jobs that have not started are dropped.
func (s *System) Close() error {
	s.mu.Lock()
	s.closed = true
	s.outstanding.Add(-int64(len(s.queue)))
	s.queue = nil
	s.mu.Unlock()
	s.cond.Broadcast()
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	return s.group.Wait()
}

func (s *System) next() (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil, false
	}
	job := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return job, true
}

func (s *System) work(ctx context.Context) {
	for {
		job, ok := s.next()
		if !ok {
			return
		}
		result := s.run(ctx, job)
		s.resultMu.Lock()
		s.results = append(s.results, result)
		s.resultMu.Unlock()
		s.outstanding.Add(-1)
	}
}

// run executes a single job. A panicking handler is reported as a failed
// result so a worker never takes the process down.
func (s *System) run(ctx context.Context, job Job) (result Result) {
	result.Job = job
	var h Handler
	if k := job.Kind(); k >= 0 && k < kindCount {
		h = s.handlers[k]
	}
	if h == nil {
		result.Err = fmt.Errorf("%w for %s", ErrNoHandler, job.Kind())
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Job %s panicked: %v", job.Kind(), r)
			result.Value = nil
			result.Err = fmt.Errorf("job %s panicked: %v", job.Kind(), r)
		}
	}()

	value, err := h(ctx, job)
	if err != nil {
		log.Printf("Job %s failed: %v", job.Kind(), err)
		result.Err = err
		return result
	}
	result.Value = value
	return result
}
