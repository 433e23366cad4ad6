package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	// EnvAPIKey overrides remote.api_key so keys can stay out of config files.
	EnvAPIKey = "FEEDGUARD_API_KEY"

	defaultPort      = 2333
	defaultEnv       = "development"
	defaultLogLevel  = "info"
	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultLexicon        = "default"
	defaultMinTextLength  = 20
	defaultPromptMaxChars = 500
	defaultRemoteTimeout  = 30 * time.Second
	defaultWorkers        = 4
	defaultQueueSize      = 256
	defaultStatusInterval = 5 * time.Minute

	defaultProvider       = "gemini"
	defaultRemoteEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
)
