package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
)

// SchemaVersion is the current cache payload schema. Rows written
// before matched sources became structured records carry no version (or
// an older one) and are never served.
const SchemaVersion = 2

// ErrStore marks a persistence failure while writing a verdict. Unlike
// every other failure in the pipeline it propagates to the caller.
var ErrStore = errors.New("verdict store failed")

// Entry is one persisted verdict row
type Entry struct {
	SchemaVersion int           `json:"schema_version"`
	Verdict       model.Verdict `json:"verdict"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ValidEntry reports whether a row may be served. The version must
// match and every matched source must be a structured record carrying
// at least a title.
func ValidEntry(e *Entry) bool {
	if e == nil || e.SchemaVersion != SchemaVersion {
		return false
	}
	for _, s := range e.Verdict.MatchedSources {
		if strings.TrimSpace(s.Title) == "" {
			return false
		}
	}
	return true
}

// VerdictCache is the typed view over a byte-level Store
type VerdictCache struct {
	store Store
	ttl   time.Duration
	log   logger.Logger
}

// NewVerdictCache wraps store with JSON encoding and the row TTL
func NewVerdictCache(store Store, ttl time.Duration, log logger.Logger) *VerdictCache {
	return &VerdictCache{store: store, ttl: ttl, log: log}
}

// Lookup fetches and decodes the row for a fingerprint. found=true with
// a nil entry means the row exists but does not decode into the current
// schema; callers treat that as stale. Backend read errors degrade to a
// miss.
func (c *VerdictCache) Lookup(ctx context.Context, fingerprint string) (entry *Entry, found bool) {
	data, ok, err := c.store.Get(ctx, fingerprint)
	if err != nil {
		c.log.Warn("cache read failed", logger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Debug("cache row does not decode", logger.Error(err))
		return nil, true
	}
	return &e, true
}

// StoreVerdict upserts the verdict under the fingerprint. Errors are
// wrapped with ErrStore and must reach the caller.
func (c *VerdictCache) StoreVerdict(ctx context.Context, fingerprint string, verdict model.Verdict) error {
	entry := Entry{
		SchemaVersion: SchemaVersion,
		Verdict:       verdict,
		CreatedAt:     time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: marshal entry: %w", ErrStore, err)
	}
	if err := c.store.Set(ctx, fingerprint, data, c.ttl); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

// Evict removes a stale row. Best effort: a failed delete is logged and
// the pipeline recomputes anyway.
func (c *VerdictCache) Evict(ctx context.Context, fingerprint string) {
	if err := c.store.Delete(ctx, fingerprint); err != nil {
		c.log.Warn("cache evict failed", logger.Error(err))
	}
}

// Store exposes the underlying backend, for health checks
func (c *VerdictCache) Store() Store {
	return c.store
}
