package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching parsed dataset bytes.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FrameKey generates a cache key for a dataset file. Modification time and
// size participate so an edited file never serves a stale frame.
func FrameKey(path string, modTime time.Time, size int64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, modTime.UnixNano(), size)))
	return "epiboost:v1:" + hex.EncodeToString(hash[:])
}
