package dataset

import (
	"fmt"
	"os"
	"time"

	"github.com/akozhin/epiboost/internal/cache"
)

// Loader reads datasets, consulting a cache of parsed frames so repeated
// loads of the same file (tune trials, re-runs) skip CSV parsing.
type Loader struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(c cache.Cache, ttl time.Duration) *Loader {
	return &Loader{cache: c, ttl: ttl}
}

// Load returns the parsed frame for path, from cache when possible.
func (l *Loader) Load(path string) (*Frame, error) {
	if l.cache == nil {
		return ReadCSV(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	key := cache.FrameKey(path, info.ModTime(), info.Size())

	if data, found := l.cache.Get(key); found {
		frame := NewFrame()
		if err := frame.UnmarshalBinary(data); err == nil {
			return frame, nil
		}
		// Corrupt entry: drop it and reparse.
		_ = l.cache.Delete(key)
	}

	frame, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}

	if data, err := frame.MarshalBinary(); err == nil {
		_ = l.cache.Set(key, data, l.ttl)
	}
	return frame, nil
}
