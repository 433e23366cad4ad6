package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	LogLevel       string             `yaml:"log_level"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	JWTSecret      string             `yaml:"jwt_secret"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Redis          RedisRuntimeConfig `yaml:"redis"`
	Detector       DetectorConfig     `yaml:"detector"`
	Remote         RemoteConfig       `yaml:"remote"`
	// BaseDir is the directory relative file references resolve against.
	BaseDir string `yaml:"-"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

type RedisRuntimeConfig struct {
	Enable   bool   `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type DetectorConfig struct {
	// Lexicon is an embedded profile name or a YAML file path.
	Lexicon        string        `yaml:"lexicon"`
	MinTextLength  int           `yaml:"min_text_length"`
	PromptMaxChars int           `yaml:"prompt_max_chars"`
	RemoteTimeout  time.Duration `yaml:"remote_timeout"`
	Workers        int           `yaml:"workers"`
	QueueSize      int           `yaml:"queue_size"`
	StatusInterval time.Duration `yaml:"status_interval"`
}

// RemoteConfig seeds the runtime settings on first start.
type RemoteConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	AutoDetect bool   `yaml:"auto_detect"`
}

type rawAppConfig struct {
	Port           int               `yaml:"port"`
	Env            string            `yaml:"env"`
	LogLevel       string            `yaml:"log_level"`
	Paths          rawPathsConfig    `yaml:"paths"`
	LogDir         string            `yaml:"log_dir"`
	JWTSecret      string            `yaml:"jwt_secret"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	Redis          rawRedisConfig    `yaml:"redis"`
	RedisURL       string            `yaml:"redis_url"`
	Detector       rawDetectorConfig `yaml:"detector"`
	Remote         rawRemoteConfig   `yaml:"remote"`
}

type rawPathsConfig struct {
	Logs string `yaml:"logs"`
}

type rawRedisConfig struct {
	Enable   *bool  `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawDetectorConfig struct {
	Lexicon        string `yaml:"lexicon"`
	MinTextLength  int    `yaml:"min_text_length"`
	PromptMaxChars int    `yaml:"prompt_max_chars"`
	RemoteTimeout  string `yaml:"remote_timeout"`
	Workers        int    `yaml:"workers"`
	QueueSize      int    `yaml:"queue_size"`
	StatusInterval string `yaml:"status_interval"`
}

type rawRemoteConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	AutoDetect *bool  `yaml:"auto_detect"`
}

// Load reads configPath. An empty path falls back to DefaultConfigPath, and a
// missing default file yields the built-in defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			applyEnv(cfg)
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	if abs, absErr := filepath.Abs(filepath.Dir(path)); absErr == nil {
		cfg.BaseDir = abs
	}
	cfg.Detector.Lexicon = ResolveRelative(cfg.Detector.Lexicon, cfg.BaseDir)
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML onto the defaults. Unknown keys are rejected.
func Parse(content []byte) (*AppConfig, error) {
	cfg := Default()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, err
		}
	}
	if err := applyRawAppConfig(cfg, raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		LogLevel: defaultLogLevel,
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Detector: DetectorConfig{
			Lexicon:        defaultLexicon,
			MinTextLength:  defaultMinTextLength,
			PromptMaxChars: defaultPromptMaxChars,
			RemoteTimeout:  defaultRemoteTimeout,
			Workers:        defaultWorkers,
			QueueSize:      defaultQueueSize,
			StatusInterval: defaultStatusInterval,
		},
		Remote: RemoteConfig{
			Provider:   defaultProvider,
			Endpoint:   defaultRemoteEndpoint,
			AutoDetect: true,
		},
	}
}

// Validate checks ranges the rest of the program relies on.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	if c.Detector.MinTextLength < 1 {
		return fmt.Errorf("invalid detector.min_text_length %d, expected >= 1", c.Detector.MinTextLength)
	}
	if c.Detector.PromptMaxChars < 1 {
		return fmt.Errorf("invalid detector.prompt_max_chars %d, expected >= 1", c.Detector.PromptMaxChars)
	}
	if c.Detector.RemoteTimeout < 0 {
		return fmt.Errorf("invalid detector.remote_timeout %s, expected >= 0", c.Detector.RemoteTimeout)
	}
	if c.Detector.StatusInterval < time.Second {
		return fmt.Errorf("invalid detector.status_interval %s, expected >= 1s", c.Detector.StatusInterval)
	}
	return nil
}

// IsProduction reports whether env is "production".
func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}

	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw.Redis)
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.Redis.URL = v
		if raw.Redis.Enable == nil {
			cfg.Redis.Enable = true
		}
	}

	detector, err := applyRawDetectorConfig(cfg.Detector, raw.Detector)
	if err != nil {
		return err
	}
	cfg.Detector = detector
	cfg.Remote = applyRawRemoteConfig(cfg.Remote, raw.Remote)

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.Remote = normalizeRemoteConfig(cfg.Remote)
	return nil
}

func applyRawRedisConfig(cfg RedisRuntimeConfig, raw rawRedisConfig) RedisRuntimeConfig {
	if raw.Enable != nil {
		cfg.Enable = *raw.Enable
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		cfg.Password = v
	}
	if raw.DB != nil {
		cfg.DB = *raw.DB
	}
	if raw.TLS != nil {
		cfg.TLS = *raw.TLS
	}
	return cfg
}

func applyRawDetectorConfig(cfg DetectorConfig, raw rawDetectorConfig) (DetectorConfig, error) {
	if v := strings.TrimSpace(raw.Lexicon); v != "" {
		cfg.Lexicon = v
	}
	if raw.MinTextLength != 0 {
		cfg.MinTextLength = raw.MinTextLength
	}
	if raw.PromptMaxChars != 0 {
		cfg.PromptMaxChars = raw.PromptMaxChars
	}
	if raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}
	if raw.QueueSize > 0 {
		cfg.QueueSize = raw.QueueSize
	}
	if v := strings.TrimSpace(raw.RemoteTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("detector.remote_timeout: %w", err)
		}
		cfg.RemoteTimeout = d
	}
	if v := strings.TrimSpace(raw.StatusInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("detector.status_interval: %w", err)
		}
		cfg.StatusInterval = d
	}
	return cfg, nil
}

func applyRawRemoteConfig(cfg RemoteConfig, raw rawRemoteConfig) RemoteConfig {
	if v := strings.TrimSpace(raw.Provider); v != "" {
		cfg.Provider = v
	}
	if v := strings.TrimSpace(raw.APIKey); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	} else if v := strings.TrimSpace(raw.Provider); v != "" && !strings.EqualFold(v, defaultProvider) {
		// The gemini default makes no sense for other providers.
		cfg.Endpoint = ""
	}
	if v := strings.TrimSpace(raw.Model); v != "" {
		cfg.Model = v
	}
	if raw.AutoDetect != nil {
		cfg.AutoDetect = *raw.AutoDetect
	}
	return cfg
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.Remote.APIKey = v
	}
}
