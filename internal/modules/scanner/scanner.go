// Package scanner turns HTML snapshots of a feed into text units and runs
// them through the coordinator on the task queue's workers.
package scanner

import (
	"context"
	"errors"
	"io"

	"github.com/mx-space/feedguard/internal/modules/detection"
	"github.com/mx-space/feedguard/internal/modules/detection/coordinator"
	"github.com/mx-space/feedguard/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const taskType = "classify"

// Processor is the part of the coordinator the scanner drives.
type Processor interface {
	Process(ctx context.Context, unit detection.TextUnit) (coordinator.Outcome, bool)
}

// Report summarises one scan.
type Report struct {
	Units    int                   `json:"units"`
	Analyzed int                   `json:"analyzed"`
	Skipped  int                   `json:"skipped"`
	Failed   int                   `json:"failed"`
	Outcomes []coordinator.Outcome `json:"outcomes"`
}

type result struct {
	outcome coordinator.Outcome
	ok      bool
}

type Service struct {
	proc   Processor
	queue  *taskqueue.Queue
	logger *zap.Logger
}

// NewService runs units on queue. A nil queue processes them inline.
func NewService(proc Processor, queue *taskqueue.Queue, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{proc: proc, queue: queue, logger: logger.Named("scanner")}
}

// Scan extracts units from an HTML snapshot and classifies them.
func (s *Service) Scan(ctx context.Context, r io.Reader) (*Report, error) {
	units, err := ExtractUnits(r)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, units)
}

// Run classifies already-extracted units. Order of outcomes follows units.
func (s *Service) Run(ctx context.Context, units []detection.TextUnit) (*Report, error) {
	report := &Report{Units: len(units), Outcomes: []coordinator.Outcome{}}
	results := make([]*result, len(units))
	tasks := make([]*taskqueue.Task, len(units))
	claimed := make(map[string]bool)

	for i, unit := range units {
		if s.queue == nil {
			results[i] = s.process(ctx, unit)
			continue
		}
		task, err := s.queue.Enqueue(taskType, unit.ID, s.processFunc(ctx, unit))
		switch {
		case errors.Is(err, taskqueue.ErrQueueFull):
			s.logger.Debug("queue full, processing inline", zap.String("unit", unit.ID))
			results[i] = s.process(ctx, unit)
		case err != nil:
			return nil, err
		case claimed[task.ID]:
			// same unit twice in one snapshot
			results[i] = &result{}
		default:
			claimed[task.ID] = true
			tasks[i] = task
		}
	}

	for i, task := range tasks {
		if task == nil {
			continue
		}
		if err := task.Wait(ctx); err != nil {
			return nil, err
		}
		done := s.queue.Get(task.ID)
		if done == nil || done.Status != taskqueue.TaskCompleted {
			report.Failed++
			continue
		}
		if res, ok := done.Result.(*result); ok {
			results[i] = res
		}
	}

	for _, res := range results {
		switch {
		case res == nil:
		case res.ok:
			report.Analyzed++
			report.Outcomes = append(report.Outcomes, res.outcome)
		default:
			report.Skipped++
		}
	}
	s.logger.Info("scan finished",
		zap.Int("units", report.Units),
		zap.Int("analyzed", report.Analyzed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report, nil
}

// processFunc binds the caller's ctx so that an abandoned scan stops its
// remote calls.
func (s *Service) processFunc(ctx context.Context, unit detection.TextUnit) taskqueue.Func {
	return func(context.Context) (interface{}, error) {
		return s.process(ctx, unit), nil
	}
}

func (s *Service) process(ctx context.Context, unit detection.TextUnit) *result {
	out, ok := s.proc.Process(ctx, unit)
	return &result{outcome: out, ok: ok}
}
