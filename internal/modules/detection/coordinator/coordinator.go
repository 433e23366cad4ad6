// Package coordinator merges the heuristic and remote stages into one binary
// verdict per text unit and keeps the per-session analyzed count.
package coordinator

import (
	"context"

	"github.com/mx-space/feedguard/internal/modules/detection"
	"github.com/mx-space/feedguard/internal/modules/detection/heuristic"
	"github.com/mx-space/feedguard/internal/modules/detection/remote"
	"go.uber.org/zap"
)

// RemoteClassifier is the fallback stage. It must resolve to false on any failure.
type RemoteClassifier interface {
	ClassifyRemote(ctx context.Context, text string, creds remote.Credentials) bool
}

// SettingsSource is read on every call so that changes apply immediately.
type SettingsSource interface {
	Credentials() remote.Credentials
	AutoDetect() bool
}

// Stage names the pipeline stage that resolved a verdict.
type Stage string

const (
	StageHeuristic Stage = "heuristic"
	StageRemote    Stage = "remote"
)

// Outcome is the result of processing one unit.
type Outcome struct {
	ID        string              `json:"id,omitempty"`
	Verdict   detection.Verdict   `json:"verdict"`
	Stage     Stage               `json:"stage"`
	Rule      heuristic.Rule      `json:"rule,omitempty"`
	Treatment detection.Treatment `json:"treatment"`
}

type Options struct {
	MinTextLength int
	Logger        *zap.Logger
}

type Coordinator struct {
	heuristic *heuristic.Classifier
	remote    RemoteClassifier
	settings  SettingsSource
	session   *Session
	minLength int
	logger    *zap.Logger
}

// New wires a coordinator. A nil remote stage resolves every undetermined
// unit as human; a nil session starts a fresh in-memory one.
func New(h *heuristic.Classifier, r RemoteClassifier, settings SettingsSource, session *Session, opts Options) *Coordinator {
	if h == nil {
		h = heuristic.New(nil)
	}
	if session == nil {
		session = NewSession(nil)
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = detection.MinTextLength
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Coordinator{
		heuristic: h,
		remote:    r,
		settings:  settings,
		session:   session,
		minLength: opts.MinTextLength,
		logger:    opts.Logger.Named("coordinator").With(zap.String("session", session.ID)),
	}
}

// Session returns the session the coordinator counts into.
func (c *Coordinator) Session() *Session { return c.session }

// Evaluate classifies text as AIGenerated or HumanWritten. It counts the
// unit exactly once whichever stage decides, and calls the remote stage only
// when the heuristics are undetermined.
func (c *Coordinator) Evaluate(ctx context.Context, text string) detection.Verdict {
	return c.evaluate(ctx, text).Verdict
}

// Process is the entry point for extracted units. It returns false, without
// counting, when auto-detect is off, the unit was already processed in this
// session, or its text is too short.
func (c *Coordinator) Process(ctx context.Context, unit detection.TextUnit) (Outcome, bool) {
	if c.settings != nil && !c.settings.AutoDetect() {
		return Outcome{}, false
	}
	if !c.session.MarkProcessed(unit.ID) {
		return Outcome{}, false
	}
	if !unit.Qualifies(c.minLength) {
		return Outcome{}, false
	}

	out := c.evaluate(ctx, unit.Trimmed())
	out.ID = unit.ID
	return out, true
}

func (c *Coordinator) evaluate(ctx context.Context, text string) Outcome {
	if _, err := c.session.incr(ctx); err != nil {
		c.logger.Warn("failed to increment analyzed counter", zap.Error(err))
	}

	res := c.heuristic.Explain(text)
	out := Outcome{Verdict: res.Verdict, Stage: StageHeuristic, Rule: res.Rule}

	if !res.Verdict.Decisive() {
		out.Stage = StageRemote
		out.Verdict = detection.HumanWritten
		if c.remote != nil {
			var creds remote.Credentials
			if c.settings != nil {
				creds = c.settings.Credentials()
			}
			out.Verdict = detection.FromBool(c.remote.ClassifyRemote(ctx, text, creds))
		}
	}

	out.Treatment = detection.TreatmentFor(out.Verdict)
	c.logger.Debug("unit classified",
		zap.String("verdict", string(out.Verdict)),
		zap.String("stage", string(out.Stage)),
		zap.String("rule", string(out.Rule)))
	return out
}
