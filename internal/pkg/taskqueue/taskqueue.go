package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrQueueClosed = errors.New("task queue is closed")
)

// Func is the work a task performs. The returned value becomes Task.Result.
type Func func(ctx context.Context) (interface{}, error)

// Task is a unit of background work.
type Task struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Status    TaskStatus  `json:"status"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	DedupKey  string      `json:"dedup_key,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	fn   Func
	done chan struct{}
}

// Wait blocks until the task reaches a terminal state or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options size a Queue. Zero values select the defaults.
type Options struct {
	Workers   int
	QueueSize int
	// Retention is how long finished tasks stay visible to Get and List.
	Retention time.Duration
	Logger    *zap.Logger
}

// Queue is a bounded in-memory worker pool with per-key deduplication.
type Queue struct {
	mu        sync.Mutex
	tasks     map[string]*Task
	active    map[string]string // dedup key -> task id, pending or running only
	ch        chan *Task
	closed    bool
	retention time.Duration
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New starts a queue with opts.Workers goroutines.
func New(opts Options) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Retention <= 0 {
		opts.Retention = 10 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		tasks:     make(map[string]*Task),
		active:    make(map[string]string),
		ch:        make(chan *Task, opts.QueueSize),
		retention: opts.Retention,
		logger:    opts.Logger.Named("taskqueue"),
		ctx:       ctx,
		cancel:    cancel,
	}
	for i := 0; i < opts.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue schedules fn. When dedupKey matches a task that is still pending
// or running, that task is returned instead and fn is dropped.
func (q *Queue) Enqueue(taskType, dedupKey string, fn Func) (*Task, error) {
	if fn == nil {
		return nil, fmt.Errorf("task %q: nil func", taskType)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrQueueClosed
	}
	if dedupKey != "" {
		if id, ok := q.active[dedupKey]; ok {
			return q.tasks[id], nil
		}
	}
	q.pruneLocked(time.Now())

	now := time.Now()
	task := &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Status:    TaskPending,
		DedupKey:  dedupKey,
		CreatedAt: now,
		UpdatedAt: now,
		fn:        fn,
		done:      make(chan struct{}),
	}

	select {
	case q.ch <- task:
	default:
		return nil, ErrQueueFull
	}
	q.tasks[task.ID] = task
	if dedupKey != "" {
		q.active[dedupKey] = task.ID
	}
	return task, nil
}

// Get returns a copy of the task with id, or nil.
func (q *Queue) Get(id string) *Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	t, ok := q.tasks[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// List returns copies of known tasks, newest first, optionally filtered by status.
func (q *Queue) List(status *TaskStatus) []*Task {
	q.mu.Lock()
	out := make([]*Task, 0, len(q.tasks))
	for _, t := range q.tasks {
		if status != nil && t.Status != *status {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	q.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Close stops accepting work, cancels pending tasks and waits for running ones.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for task := range q.ch {
		if q.ctx.Err() != nil {
			q.finish(task, TaskCancelled, nil, "queue closed")
			continue
		}
		q.run(task)
	}
}

func (q *Queue) run(task *Task) {
	q.mu.Lock()
	task.Status = TaskRunning
	task.UpdatedAt = time.Now()
	q.mu.Unlock()

	result, err := safeCall(q.ctx, task.fn)
	if err != nil {
		q.logger.Warn("task failed", zap.String("id", task.ID), zap.String("type", task.Type), zap.Error(err))
		q.finish(task, TaskFailed, nil, err.Error())
		return
	}
	q.finish(task, TaskCompleted, result, "")
}

func (q *Queue) finish(task *Task, status TaskStatus, result interface{}, errMsg string) {
	q.mu.Lock()
	task.Status = status
	task.Result = result
	task.Error = errMsg
	task.UpdatedAt = time.Now()
	if task.DedupKey != "" && q.active[task.DedupKey] == task.ID {
		delete(q.active, task.DedupKey)
	}
	q.mu.Unlock()
	close(task.done)
}

func (q *Queue) pruneLocked(now time.Time) {
	for id, t := range q.tasks {
		switch t.Status {
		case TaskCompleted, TaskFailed, TaskCancelled:
			if now.Sub(t.UpdatedAt) > q.retention {
				delete(q.tasks, id)
			}
		}
	}
}

func safeCall(ctx context.Context, fn Func) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return fn(ctx)
}
