package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mx-space/feedguard/internal/config"
	"github.com/mx-space/feedguard/internal/modules/detection/coordinator"
	"github.com/mx-space/feedguard/internal/modules/detection/heuristic"
	"github.com/mx-space/feedguard/internal/modules/detection/lexicon"
	"github.com/mx-space/feedguard/internal/modules/detection/remote"
	"github.com/mx-space/feedguard/internal/modules/settings"
	pkgredis "github.com/mx-space/feedguard/internal/pkg/redis"
	"go.uber.org/zap"
)

// Engine is the detection pipeline without any transport around it.
type Engine struct {
	Bank        *lexicon.Bank
	Settings    *settings.Service
	Adapter     *remote.Adapter
	Coordinator *coordinator.Coordinator
}

// NewEngine assembles the pipeline. With rc set, settings and the session
// counter live in redis; otherwise they are process-local. ctx bounds the
// settings watcher.
func NewEngine(ctx context.Context, cfg *config.AppConfig, rc *pkgredis.Client, logger *zap.Logger) (*Engine, error) {
	bank, err := lexicon.Load(cfg.Detector.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}

	var store settings.Store = settings.NewMemoryStore()
	if rc != nil {
		store = settings.NewRedisStore(rc)
	}
	settingsSvc := settings.NewService(store, SettingsFromConfig(cfg.Remote), logger)
	if err := settingsSvc.Init(ctx); err != nil {
		return nil, err
	}

	adapter := remote.NewAdapter(remote.NewRouter(nil), remote.Options{
		Timeout:        cfg.Detector.RemoteTimeout,
		PromptMaxChars: cfg.Detector.PromptMaxChars,
		Logger:         logger,
	})

	sessionID := uuid.New().String()
	var counter coordinator.Counter
	if rc != nil {
		counter = coordinator.NewRedisCounter(rc, sessionID)
	}
	session := coordinator.NewSessionWithID(sessionID, counter)
	coord := coordinator.New(heuristic.New(bank), adapter, settingsSvc, session, coordinator.Options{
		MinTextLength: cfg.Detector.MinTextLength,
		Logger:        logger,
	})

	logger.Info("detector ready",
		zap.String("lexicon", bank.Name()),
		zap.String("provider", settingsSvc.Get().Provider),
		zap.Bool("api_key", settingsSvc.Get().HasAPIKey()),
		zap.String("session", session.ID))

	return &Engine{Bank: bank, Settings: settingsSvc, Adapter: adapter, Coordinator: coord}, nil
}

// SettingsFromConfig turns the remote section into initial runtime settings.
func SettingsFromConfig(rc config.RemoteConfig) settings.Settings {
	s := settings.Defaults()
	s.APIKey = rc.APIKey
	s.Endpoint = rc.Endpoint
	s.Provider = remote.NormalizeProvider(rc.Provider)
	s.Model = rc.Model
	s.AutoDetect = rc.AutoDetect
	return s
}
