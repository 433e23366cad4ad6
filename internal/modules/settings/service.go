package settings

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"sync"

	"github.com/mx-space/feedguard/internal/modules/detection/remote"
	"go.uber.org/zap"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Service holds the current settings. Reads are lock-protected snapshots, so
// a patch takes effect on the next classification without re-initialisation.
type Service struct {
	store  Store
	logger *zap.Logger

	mu          sync.RWMutex
	current     Settings
	subscribers []func(Settings)
}

// NewService starts from defaults; call Init to merge stored values.
func NewService(store Store, defaults Settings, logger *zap.Logger) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, current: defaults, logger: logger.Named("settings")}
}

// Init replaces the defaults with stored settings, if any, and starts
// watching the store for changes made by other processes.
func (s *Service) Init(ctx context.Context) error {
	stored, found, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if found {
		s.mu.Lock()
		s.current = stored
		s.mu.Unlock()
	} else if err := s.store.Save(ctx, s.Get()); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	if n, ok := s.store.(Notifier); ok {
		n.Watch(ctx, s.replace)
	}
	return nil
}

// Get returns a snapshot of the current settings.
func (s *Service) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Credentials returns the remote credentials from the current settings.
func (s *Service) Credentials() remote.Credentials { return s.Get().Credentials() }

// AutoDetect reports whether classification is enabled.
func (s *Service) AutoDetect() bool { return s.Get().AutoDetect }

// Patch validates and applies p, persists the result and notifies subscribers.
func (s *Service) Patch(ctx context.Context, p Patch) (Settings, error) {
	s.mu.Lock()
	next := p.Apply(s.current)
	if err := Validate(next); err != nil {
		s.mu.Unlock()
		return Settings{}, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.current = next
	subs := append([]func(Settings){}, s.subscribers...)
	s.mu.Unlock()

	s.logger.Info("settings updated",
		zap.String("provider", next.Provider),
		zap.Bool("has_api_key", next.HasAPIKey()),
		zap.Bool("auto_detect", next.AutoDetect))
	for _, fn := range subs {
		fn(next)
	}
	return next, nil
}

// Subscribe registers fn to run after every change.
func (s *Service) Subscribe(fn func(Settings)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Service) replace(next Settings) {
	s.mu.Lock()
	if s.current == next {
		s.mu.Unlock()
		return
	}
	s.current = next
	subs := append([]func(Settings){}, s.subscribers...)
	s.mu.Unlock()

	s.logger.Info("settings reloaded from store")
	for _, fn := range subs {
		fn(next)
	}
}

// Validate rejects unknown providers and unparsable endpoints. A blank API
// key is valid: the detector then runs heuristics only.
func Validate(s Settings) error {
	switch remote.NormalizeProvider(s.Provider) {
	case remote.ProviderGemini, remote.ProviderOpenAI, remote.ProviderOpenAICompatible, remote.ProviderAnthropic:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidSettings, s.Provider)
	}
	if s.Endpoint == "" {
		return nil
	}
	u, err := neturl.Parse(s.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: endpoint must be an http(s) url", ErrInvalidSettings)
	}
	return nil
}
