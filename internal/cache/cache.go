package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

// keyPrefix namespaces every verdict row in the backing store.
const keyPrefix = "aletheia:v1:"

// Fingerprint derives the cache key for a claim. The hash runs over the
// trimmed claim text concatenated with the style, so identical
// (text, style) pairs always map to the same row.
func Fingerprint(text string, style model.Style) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(text) + string(style)))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// Store is the byte-level backend interface
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Pinger is implemented by backends with a liveness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewStore builds the backend selected by cfg.Backend. A redis backend
// that cannot be reached at startup degrades to memory with a warning
// rather than failing the whole service.
func NewStore(cfg model.CacheConfig, log logger.Logger) Store {
	switch strings.ToLower(cfg.Backend) {
	case "redis":
		rs, err := NewRedisStore(cfg, log)
		if err != nil {
			log.Warn("redis unavailable, using memory cache", logger.Error(err))
			return NewMemoryStore(cfg.TTL, 10*time.Minute)
		}
		return rs
	case "layered":
		rs, err := NewRedisStore(cfg, log)
		if err != nil {
			log.Warn("redis unavailable, using memory cache", logger.Error(err))
			return NewMemoryStore(cfg.TTL, 10*time.Minute)
		}
		return NewLayeredStore(NewMemoryStore(cfg.TTL, 10*time.Minute), rs)
	default:
		return NewMemoryStore(cfg.TTL, 10*time.Minute)
	}
}
