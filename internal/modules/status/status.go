// Package status tracks whether the remote classifier is reachable, the way
// an extension popup would report it.
package status

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mx-space/feedguard/internal/modules/detection/remote"
	"github.com/mx-space/feedguard/internal/pkg/cron"
	"go.uber.org/zap"
)

const JobName = "remote-status"

type State string

const (
	StateUnknown        State = "unknown"
	StateOnline         State = "online"
	StateOffline        State = "offline"
	StateAPIKeyRequired State = "api_key_required"
)

var labels = map[State]string{
	StateUnknown:        "Checking...",
	StateOnline:         "Online",
	StateOffline:        "Offline",
	StateAPIKeyRequired: "API Key Required",
}

// Label is the human-readable status line.
func (s State) Label() string { return labels[s] }

type Status struct {
	State     State      `json:"state"`
	Label     string     `json:"label"`
	Message   string     `json:"message,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

type Prober interface {
	Probe(ctx context.Context, creds remote.Credentials) remote.ProbeResult
}

type CredentialSource interface {
	Credentials() remote.Credentials
}

var errOffline = errors.New("remote classifier offline")

type Monitor struct {
	prober Prober
	creds  CredentialSource
	logger *zap.Logger

	mu      sync.RWMutex
	current Status
}

func NewMonitor(prober Prober, creds CredentialSource, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		prober:  prober,
		creds:   creds,
		logger:  logger.Named("status"),
		current: Status{State: StateUnknown, Label: StateUnknown.Label()},
	}
}

// Check probes the remote model and records the result. Without an API key
// no request is made.
func (m *Monitor) Check(ctx context.Context) Status {
	creds := m.creds.Credentials()
	now := time.Now()
	next := Status{CheckedAt: &now}

	if strings.TrimSpace(creds.APIKey) == "" {
		next.State = StateAPIKeyRequired
	} else {
		res := m.prober.Probe(ctx, creds)
		next.Message = res.Message
		if res.Success {
			next.State = StateOnline
		} else {
			next.State = StateOffline
		}
	}
	next.Label = next.State.Label()

	m.mu.Lock()
	prev := m.current.State
	m.current = next
	m.mu.Unlock()

	if prev != next.State {
		m.logger.Info("remote status changed",
			zap.String("from", string(prev)),
			zap.String("to", string(next.State)),
			zap.String("message", next.Message))
	}
	return next
}

// Current returns the last recorded status.
func (m *Monitor) Current() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Job runs Check periodically. An offline result marks the run rejected.
func (m *Monitor) Job(interval time.Duration) cron.Job {
	return cron.Job{
		Name:        JobName,
		Description: "probe the remote classifier",
		Interval:    interval,
		Immediate:   true,
		Fn: func(ctx context.Context) error {
			if m.Check(ctx).State == StateOffline {
				return errOffline
			}
			return nil
		},
	}
}
