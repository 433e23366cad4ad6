// Package remote is the fallback stage of the detector: it asks an external
// language model whether ambiguous text is AI-generated.
//
// Every failure (missing credentials, transport error, non-2xx status,
// malformed body, timeout) resolves to "not AI". Errors are logged and never
// reach the caller.
package remote

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options tune an Adapter. Zero values select the defaults.
type Options struct {
	Timeout        time.Duration
	PromptMaxChars int
	Logger         *zap.Logger
}

// Adapter turns ambiguous text into a boolean verdict via a Transport.
type Adapter struct {
	transport Transport
	timeout   time.Duration
	maxChars  int
	logger    *zap.Logger
}

// ProbeResult is the outcome of a connectivity check.
type ProbeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewAdapter(transport Transport, opts Options) *Adapter {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PromptMaxChars <= 0 {
		opts.PromptMaxChars = DefaultPromptMaxChars
	}
	return &Adapter{
		transport: transport,
		timeout:   opts.Timeout,
		maxChars:  opts.PromptMaxChars,
		logger:    opts.Logger.Named("remote"),
	}
}

// ClassifyRemote reports whether the remote model judges text AI-generated.
// It returns false whenever a verdict cannot be obtained.
func (a *Adapter) ClassifyRemote(ctx context.Context, text string, creds Credentials) bool {
	if !creds.Complete() {
		a.logger.Info("remote classifier not configured, skipping detection",
			zap.String("provider", NormalizeProvider(creds.Provider)))
		return false
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	completion, err := a.transport.Generate(ctx, creds, BuildPrompt(text, a.maxChars))
	if err != nil {
		a.logger.Warn("remote classification failed",
			zap.String("provider", NormalizeProvider(creds.Provider)),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return false
	}
	if completion == nil || !completion.HasText {
		a.logger.Warn("remote classification failed",
			zap.String("provider", NormalizeProvider(creds.Provider)),
			zap.Error(ErrMalformedResponse))
		return false
	}

	isAI := ParseVerdict(completion.Text)
	a.logger.Debug("remote classification",
		zap.String("response", strings.TrimSpace(completion.Text)),
		zap.Bool("ai", isAI),
		zap.Duration("latency", time.Since(start)))
	return isAI
}

// ParseVerdict applies the response rule: any occurrence of "ai" in the
// lower-cased completion means AI-generated.
func ParseVerdict(completion string) bool {
	return strings.Contains(strings.ToLower(completion), "ai")
}

// Probe sends a fixed test prompt and reports whether the model answered with
// at least one completion candidate.
func (a *Adapter) Probe(ctx context.Context, creds Credentials) ProbeResult {
	if strings.TrimSpace(creds.APIKey) == "" {
		return ProbeResult{Message: "API key required"}
	}
	if !creds.Complete() {
		return ProbeResult{Message: "endpoint required"}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	completion, err := a.transport.Generate(ctx, creds, probePrompt)
	if err != nil {
		a.logger.Warn("remote connection test failed", zap.Error(err))
		return ProbeResult{Message: probeMessage(err)}
	}
	if completion == nil || completion.Candidates == 0 {
		return ProbeResult{Message: ErrMalformedResponse.Error()}
	}
	return ProbeResult{Success: true, Message: "connection successful"}
}

func (a *Adapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return context.WithCancel(ctx)
}

func probeMessage(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, ErrMalformedResponse):
		return ErrMalformedResponse.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return err.Error()
	}
}
