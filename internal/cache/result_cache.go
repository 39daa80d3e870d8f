// Package cache stores standardised results on disk so repeated benchmark
// runs can skip re-reading unchanged raw result files.
package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inodb/vibe-pheval/internal/standardise"
)

// Key identifies how a result was standardised. A cached entry is only
// valid for the same source file, score field, sort order and kinds.
type Key struct {
	Source FileFingerprint
	Field  standardise.ScoreField
	Order  standardise.SortOrder
	Kinds  standardise.Kinds
}

func (k Key) kinds() string {
	var names []string
	for _, kind := range k.Kinds.List() {
		names = append(names, string(kind))
	}
	return strings.Join(names, ",")
}

// ResultCache manages gob-serialized standardised results on disk:
//
//	{dir}/{stem}.gob       (serialized standardise.Result)
//	{dir}/{stem}.gob.meta  (source fingerprint and standardisation settings)
type ResultCache struct {
	dir string
}

// NewResultCache creates a result cache for the given directory.
func NewResultCache(dir string) *ResultCache {
	return &ResultCache{dir: dir}
}

// Dir returns the cache directory.
func (rc *ResultCache) Dir() string {
	return rc.dir
}

func (rc *ResultCache) gobPath(stem string) string {
	return filepath.Join(rc.dir, stem+".gob")
}

func (rc *ResultCache) metaPath(stem string) string {
	return filepath.Join(rc.dir, stem+".gob.meta")
}

// Valid checks whether the cached result of stem was produced from the same
// source file and settings.
func (rc *ResultCache) Valid(stem string, key Key) bool {
	meta, err := rc.readMeta(stem)
	if err != nil {
		return false
	}

	checks := []struct{ key, val string }{
		{"source_size", key.Source.size()},
		{"source_modtime", key.Source.modTime()},
		{"score_field", string(key.Field)},
		{"score_order", string(key.Order)},
		{"kinds", key.kinds()},
	}

	for _, c := range checks {
		if meta[c.key] != c.val {
			return false
		}
	}

	if _, err := os.Stat(rc.gobPath(stem)); err != nil {
		return false
	}
	return true
}

// Load reads a cached result from disk.
func (rc *ResultCache) Load(stem string) (*standardise.Result, error) {
	f, err := os.Open(rc.gobPath(stem))
	if err != nil {
		return nil, fmt.Errorf("open result cache: %w", err)
	}
	defer f.Close()

	var res standardise.Result
	if err := gob.NewDecoder(f).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode result cache: %w", err)
	}
	return &res, nil
}

// Write serializes res to disk along with its key.
func (rc *ResultCache) Write(stem string, res *standardise.Result, key Key) error {
	if err := os.MkdirAll(rc.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	f, err := os.Create(rc.gobPath(stem))
	if err != nil {
		return fmt.Errorf("create result cache: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(res); err != nil {
		f.Close()
		os.Remove(rc.gobPath(stem))
		return fmt.Errorf("encode result cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close result cache: %w", err)
	}

	return rc.writeMeta(stem, key)
}

// Clear removes every cached result in the cache directory.
func (rc *ResultCache) Clear() error {
	entries, err := os.ReadDir(rc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache directory: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".gob") || strings.HasSuffix(name, ".gob.meta") {
			os.Remove(filepath.Join(rc.dir, name))
		}
	}
	return nil
}

func (rc *ResultCache) writeMeta(stem string, key Key) error {
	lines := []string{
		"source_path=" + key.Source.Path,
		"source_size=" + key.Source.size(),
		"source_modtime=" + key.Source.modTime(),
		"score_field=" + string(key.Field),
		"score_order=" + string(key.Order),
		"kinds=" + key.kinds(),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(rc.metaPath(stem), []byte(strings.Join(lines, "\n")), 0644)
}

func (rc *ResultCache) readMeta(stem string) (map[string]string, error) {
	data, err := os.ReadFile(rc.metaPath(stem))
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
