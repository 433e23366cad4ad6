package detect

import (
	"context"
	"strings"

	"github.com/mx-space/feedguard/internal/modules/detection"
	"github.com/mx-space/feedguard/internal/modules/detection/coordinator"
	"github.com/mx-space/feedguard/internal/modules/detection/lexicon"
	"github.com/mx-space/feedguard/internal/modules/detection/remote"
)

// Prober checks connectivity to the remote model.
type Prober interface {
	Probe(ctx context.Context, creds remote.Credentials) remote.ProbeResult
}

// CredentialSource supplies the stored remote credentials.
type CredentialSource interface {
	Credentials() remote.Credentials
}

type Service struct {
	coord  *coordinator.Coordinator
	bank   *lexicon.Bank
	prober Prober
	creds  CredentialSource
}

func NewService(coord *coordinator.Coordinator, bank *lexicon.Bank, prober Prober, creds CredentialSource) *Service {
	if bank == nil {
		bank = lexicon.Default()
	}
	return &Service{coord: coord, bank: bank, prober: prober, creds: creds}
}

// Detect classifies one unit through the full pipeline.
func (s *Service) Detect(ctx context.Context, req DetectRequest) DetectResponse {
	out, ok := s.coord.Process(ctx, detection.TextUnit{ID: req.ID, Text: req.Text})
	if !ok {
		return DetectResponse{}
	}
	return DetectResponse{Analyzed: true, Outcome: &out}
}

// Stats reads the session counter.
func (s *Service) Stats(ctx context.Context) (StatsResponse, error) {
	session := s.coord.Session()
	n, err := session.Analyzed(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{SessionID: session.ID, PostsAnalyzed: n, StartedAt: session.StartedAt}, nil
}

func (s *Service) Lexicon() LexiconResponse {
	return LexiconResponse{
		Summary:       s.bank.Summary(),
		Profiles:      lexicon.Profiles(),
		PromptVersion: remote.PromptVersion,
	}
}

// Probe tests connectivity with the stored credentials, overridden by any
// non-blank field of req.
func (s *Service) Probe(ctx context.Context, req ProbeRequest) remote.ProbeResult {
	var creds remote.Credentials
	if s.creds != nil {
		creds = s.creds.Credentials()
	}
	if v := strings.TrimSpace(req.APIKey); v != "" {
		creds.APIKey = v
	}
	if v := strings.TrimSpace(req.Endpoint); v != "" {
		creds.Endpoint = v
	}
	if v := strings.TrimSpace(req.Provider); v != "" {
		creds.Provider = v
	}
	if v := strings.TrimSpace(req.Model); v != "" {
		creds.Model = v
	}
	return s.prober.Probe(ctx, creds)
}
