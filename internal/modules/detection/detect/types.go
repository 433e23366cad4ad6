package detect

import (
	"time"

	"github.com/mx-space/feedguard/internal/modules/detection/coordinator"
	"github.com/mx-space/feedguard/internal/modules/detection/lexicon"
)

type DetectRequest struct {
	ID   string `json:"id"`
	Text string `json:"text" binding:"required"`
}

// DetectResponse flattens the outcome; unanalyzed units carry only the flag.
type DetectResponse struct {
	Analyzed bool `json:"analyzed"`
	*coordinator.Outcome
}

type StatsResponse struct {
	SessionID     string    `json:"session_id"`
	PostsAnalyzed int64     `json:"posts_analyzed"`
	StartedAt     time.Time `json:"started_at"`
}

type LexiconResponse struct {
	lexicon.Summary
	Profiles      []string `json:"profiles"`
	PromptVersion string   `json:"prompt_version"`
}

// ProbeRequest optionally overrides the stored credentials field by field.
type ProbeRequest struct {
	APIKey   string `json:"api_key"`
	Endpoint string `json:"endpoint"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
