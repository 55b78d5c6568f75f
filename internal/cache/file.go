package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/homescout/homescout/internal/telemetry"
)

// FileStore persists one pretty-printed JSON file per cache key. The file's
// modification time is the sole TTL signal; no TTL metadata is stored inside
// the payload.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates a FileStore rooted at dir with the given TTL.
// The directory is created lazily on first write.
func NewFileStore(dir string, ttl time.Duration) *FileStore {
	return &FileStore{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached payload for key, or (nil, false) when the entry is
// missing, expired, unreadable or not valid JSON.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool) {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "cache_get",
		"key":       key,
		"service":   "cache",
	})

	path := s.path(key)

	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("Cache miss - entry not found")
		return nil, false
	}

	if s.now().Sub(info.ModTime()) > s.ttl {
		logger.Debug("Cache miss - entry expired")
		return nil, false
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		// Read errors degrade to a miss; the caller refetches.
		logger.WithError(err).Warn("Cache read failed, treating as miss")
		return nil, false
	}

	if !json.Valid(payload) {
		logger.Warn("Cache payload is not valid JSON, treating as miss")
		return nil, false
	}

	logger.Debug("Cache hit")
	return payload, true
}

// Set writes the payload for key, pretty-printed, replacing any existing
// entry and refreshing its timestamp.
func (s *FileStore) Set(ctx context.Context, key string, payload []byte) error {
	logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "cache_set",
		"key":       key,
		"service":   "cache",
	})

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		return fmt.Errorf("failed to format cache payload: %w", err)
	}
	pretty.WriteByte('\n')

	// Write-temp-then-rename so a concurrent reader never observes a
	// half-written entry. Last writer wins on same-key races.
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	if _, err := tmp.Write(pretty.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize cache entry: %w", err)
	}

	logger.Debug("Cache entry written")
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
