// Package sample reads and writes the per-platform JSON fixtures used when
// live credentials are not available.
package sample

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// ErrUnknownPlatform is returned for a platform without a fixture name.
var ErrUnknownPlatform = errors.New("unknown platform")

// FileName returns the fixture file name of a platform.
func FileName(p social.Platform) string {
	return "sample_" + string(p) + ".json"
}

// Loader loads fixtures from a directory, reading each platform at most once.
type Loader struct {
	dir string

	sf    singleflight.Group
	mu    sync.RWMutex
	cache map[social.Platform][]social.Record
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: make(map[social.Platform][]social.Record),
	}
}

// Dir returns the fixture directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Load returns the fixture records of a platform. A missing file yields an
// empty slice. Successful reads are memoized; concurrent callers share one read.
func (l *Loader) Load(ctx context.Context, p social.Platform) ([]social.Record, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	records, ok := l.cache[p]
	l.mu.RUnlock()
	if ok {
		return records, nil
	}

	v, err, _ := l.sf.Do(string(p), func() (interface{}, error) {
		records, err := l.read(p)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[p] = records
		l.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]social.Record), nil
}

func (l *Loader) read(p social.Platform) ([]social.Record, error) {
	path := filepath.Join(l.dir, FileName(p))
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []social.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open sample %s: %w", path, err)
	}
	defer f.Close()

	records, err := normalize.DecodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample %s: %w", path, err)
	}
	return records, nil
}

// Forget drops the memoized records of a platform so the next Load rereads the file.
func (l *Loader) Forget(p social.Platform) {
	l.mu.Lock()
	delete(l.cache, p)
	l.mu.Unlock()
}

// Save writes records as the fixture of a platform, creating dir if needed.
func Save(dir string, p social.Platform, records []social.Record) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
	if records == nil {
		records = []social.Record{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sample directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s sample: %w", p, err)
	}
	path := filepath.Join(dir, FileName(p))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write sample %s: %w", path, err)
	}
	return nil
}
