package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderGemini           = "gemini"
	ProviderOpenAI           = "openai"
	ProviderOpenAICompatible = "openai-compatible"
	ProviderAnthropic        = "anthropic"

	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

	defaultHTTPTimeout = 30 * time.Second
	maxOutputTokens    = 16
)

var (
	ErrMissingCredentials = errors.New("remote classifier api key or endpoint is empty")
	ErrNoCandidates       = errors.New("response contains no completion candidates")
	ErrMalformedResponse  = errors.New("invalid response format")
	ErrUnknownProvider    = errors.New("unknown remote provider")
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Credentials select and authenticate the remote model for a single call.
// They are supplied fresh on every call and never retained.
type Credentials struct {
	APIKey   string `json:"api_key"`
	Endpoint string `json:"endpoint"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Complete reports whether both the API key and the endpoint are set.
// Providers backed by an SDK may leave the endpoint empty to use their default.
func (c Credentials) Complete() bool {
	if strings.TrimSpace(c.APIKey) == "" {
		return false
	}
	switch NormalizeProvider(c.Provider) {
	case ProviderOpenAI, ProviderAnthropic:
		return true
	default:
		return strings.TrimSpace(c.Endpoint) != ""
	}
}

// Completion is the part of a model response the detector cares about.
type Completion struct {
	// Candidates is the number of completion candidates returned.
	Candidates int
	// Text is the first candidate's text; HasText is false when the first
	// candidate carried no text part.
	Text    string
	HasText bool
}

// Transport performs one request/response exchange with a text-generation
// model. It never retries and never streams.
type Transport interface {
	Generate(ctx context.Context, creds Credentials, prompt string) (*Completion, error)
}

// NormalizeProvider canonicalises provider names; empty means gemini.
func NormalizeProvider(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	switch t {
	case "", "google", "gemini":
		return ProviderGemini
	case "openaicompatible":
		return ProviderOpenAICompatible
	}
	return t
}

// Router dispatches to a transport by the credentials' provider.
type Router struct {
	transports map[string]Transport
}

// NewRouter builds the stock router. client is shared by the raw HTTP
// transports; nil uses a client with a 30s timeout.
func NewRouter(client *http.Client) *Router {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	sdk := NewSDKTransport()
	return &Router{transports: map[string]Transport{
		ProviderGemini:           NewGeminiTransport(client),
		ProviderOpenAICompatible: NewChatCompletionsTransport(client),
		ProviderOpenAI:           sdk,
		ProviderAnthropic:        sdk,
	}}
}

// Register installs or replaces the transport for provider.
func (r *Router) Register(provider string, t Transport) {
	r.transports[NormalizeProvider(provider)] = t
}

func (r *Router) Generate(ctx context.Context, creds Credentials, prompt string) (*Completion, error) {
	provider := NormalizeProvider(creds.Provider)
	t, ok := r.transports[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, creds.Provider)
	}
	return t.Generate(ctx, creds, prompt)
}
