package settings

import (
	"strings"

	"github.com/mx-space/feedguard/internal/modules/detection/remote"
)

// Settings is the runtime-mutable configuration of the detector.
type Settings struct {
	APIKey     string `json:"api_key"`
	Endpoint   string `json:"endpoint"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	AutoDetect bool   `json:"auto_detect"`
}

// Defaults mirror a fresh install: gemini-2.0-flash, no key, auto-detect on.
func Defaults() Settings {
	return Settings{
		Endpoint:   remote.DefaultGeminiEndpoint,
		Provider:   remote.ProviderGemini,
		AutoDetect: true,
	}
}

// Credentials projects the settings onto the remote adapter's input.
func (s Settings) Credentials() remote.Credentials {
	return remote.Credentials{
		APIKey:   s.APIKey,
		Endpoint: s.Endpoint,
		Provider: s.Provider,
		Model:    s.Model,
	}
}

// HasAPIKey reports whether a non-blank key is configured.
func (s Settings) HasAPIKey() bool { return strings.TrimSpace(s.APIKey) != "" }

// Masked hides all but the edges of the API key.
func (s Settings) Masked() Settings {
	s.APIKey = MaskKey(s.APIKey)
	return s
}

func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return "********"
	default:
		return key[:4] + "********" + key[len(key)-4:]
	}
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	APIKey     *string `json:"api_key"`
	Endpoint   *string `json:"endpoint"`
	Provider   *string `json:"provider"`
	Model      *string `json:"model"`
	AutoDetect *bool   `json:"auto_detect"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.APIKey == nil && p.Endpoint == nil && p.Provider == nil && p.Model == nil && p.AutoDetect == nil
}

// Apply returns s with p's fields overlaid.
func (p Patch) Apply(s Settings) Settings {
	if p.APIKey != nil {
		s.APIKey = strings.TrimSpace(*p.APIKey)
	}
	if p.Endpoint != nil {
		s.Endpoint = strings.TrimSpace(*p.Endpoint)
	}
	if p.Provider != nil {
		s.Provider = remote.NormalizeProvider(*p.Provider)
	}
	if p.Model != nil {
		s.Model = strings.TrimSpace(*p.Model)
	}
	if p.AutoDetect != nil {
		s.AutoDetect = *p.AutoDetect
	}
	return s
}
