package settings

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	redisc "github.com/mx-space/feedguard/internal/pkg/redis"
)

// Store persists settings across restarts.
type Store interface {
	// Load returns the stored settings and whether any were found.
	Load(ctx context.Context) (Settings, bool, error)
	Save(ctx context.Context, s Settings) error
}

// Notifier is implemented by stores shared between processes. Watch calls fn
// whenever another writer saves, until ctx ends.
type Notifier interface {
	Watch(ctx context.Context, fn func(Settings))
}

// MemoryStore keeps settings for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	value *Settings
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (Settings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.value == nil {
		return Settings{}, false, nil
	}
	return *m.value, true, nil
}

func (m *MemoryStore) Save(ctx context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = &s
	return nil
}

var (
	settingsKey     = redisc.Key("settings")
	settingsChannel = redisc.Key("settings", "changed")
)

// RedisStore keeps settings in a hash and announces saves on a channel.
type RedisStore struct {
	rc *redisc.Client
}

func NewRedisStore(rc *redisc.Client) *RedisStore { return &RedisStore{rc: rc} }

func (r *RedisStore) Load(ctx context.Context) (Settings, bool, error) {
	fields, err := r.rc.HGetAll(ctx, settingsKey)
	if err != nil {
		return Settings{}, false, err
	}
	if len(fields) == 0 {
		return Settings{}, false, nil
	}
	autoDetect, err := strconv.ParseBool(fields["auto_detect"])
	if err != nil {
		autoDetect = true
	}
	return Settings{
		APIKey:     fields["api_key"],
		Endpoint:   fields["endpoint"],
		Provider:   fields["provider"],
		Model:      fields["model"],
		AutoDetect: autoDetect,
	}, true, nil
}

func (r *RedisStore) Save(ctx context.Context, s Settings) error {
	if err := r.rc.HSet(ctx, settingsKey, map[string]interface{}{
		"api_key":     s.APIKey,
		"endpoint":    s.Endpoint,
		"provider":    s.Provider,
		"model":       s.Model,
		"auto_detect": strconv.FormatBool(s.AutoDetect),
	}); err != nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rc.Publish(ctx, settingsChannel, payload)
}

func (r *RedisStore) Watch(ctx context.Context, fn func(Settings)) {
	sub := r.rc.Subscribe(ctx, settingsChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var s Settings
				if err := json.Unmarshal([]byte(msg.Payload), &s); err == nil {
					fn(s)
				}
			}
		}
	}()
}
