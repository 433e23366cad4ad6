package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// JobStatus represents the last known state of a job.
type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusFulfill JobStatus = "fulfill"
	StatusReject  JobStatus = "reject"
)

// Job defines a periodic background task.
type Job struct {
	Name        string
	Description string
	Interval    time.Duration
	// Immediate runs the job once as soon as the scheduler starts.
	Immediate bool
	Fn        func(ctx context.Context) error
}

type jobState struct {
	Job
	mu        sync.Mutex
	status    JobStatus
	message   string
	lastRunAt *time.Time
	nextRunAt time.Time
	runs      int
}

// ListItem is the serializable representation of a job.
type ListItem struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      JobStatus  `json:"status"`
	Message     string     `json:"message,omitempty"`
	Runs        int        `json:"runs"`
	NextDate    *time.Time `json:"next_date"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
}

// Scheduler runs a set of named jobs on fixed intervals.
type Scheduler struct {
	mu      sync.RWMutex
	jobs    map[string]*jobState
	started bool
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*jobState)}
}

// Register adds a job. Registering after Start is an error, as is a
// non-positive interval.
func (s *Scheduler) Register(job Job) error {
	if job.Interval <= 0 {
		return fmt.Errorf("job %q: interval must be positive", job.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("job %q: scheduler already started", job.Name)
	}
	next := time.Now().Add(job.Interval)
	if job.Immediate {
		next = time.Now()
	}
	s.jobs[job.Name] = &jobState{Job: job, status: StatusIdle, nextRunAt: next}
	return nil
}

// Start launches every registered job. Loops exit when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	for _, js := range s.jobs {
		go s.runLoop(ctx, js)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, js *jobState) {
	for {
		js.mu.Lock()
		wait := time.Until(js.nextRunAt)
		js.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, js)
			js.mu.Lock()
			js.nextRunAt = time.Now().Add(js.Interval)
			js.mu.Unlock()
		}
	}
}

// execute runs the job unless it is already running and reports whether it ran.
func (s *Scheduler) execute(ctx context.Context, js *jobState) bool {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		return false
	}
	js.status = StatusRunning
	js.mu.Unlock()

	now := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	defer js.mu.Unlock()
	js.lastRunAt = &now
	js.runs++
	if err != nil {
		js.status = StatusReject
		js.message = err.Error()
	} else {
		js.status = StatusFulfill
		js.message = ""
	}
	return true
}

// Run triggers a job by name and waits for it to finish. A job that is
// already running is not started twice.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	js, err := s.lookup(name)
	if err != nil {
		return err
	}
	s.execute(ctx, js)
	return nil
}

// Get returns the current state of a job.
func (s *Scheduler) Get(name string) (*ListItem, error) {
	js, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	item := js.snapshot()
	return &item, nil
}

// List returns a summary of all registered jobs sorted by name.
func (s *Scheduler) List() []ListItem {
	s.mu.RLock()
	items := make([]ListItem, 0, len(s.jobs))
	for _, js := range s.jobs {
		items = append(items, js.snapshot())
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (s *Scheduler) lookup(name string) (*jobState, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %q not found", name)
	}
	return js, nil
}

func (js *jobState) snapshot() ListItem {
	js.mu.Lock()
	defer js.mu.Unlock()
	next := js.nextRunAt
	return ListItem{
		Name:        js.Name,
		Description: js.Description,
		Status:      js.status,
		Message:     js.message,
		Runs:        js.runs,
		NextDate:    &next,
		LastRunAt:   js.lastRunAt,
	}
}
