package truth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ErrNotFound is returned when no ground truth can be resolved for a result.
var ErrNotFound = errors.New("no matching ground truth")

// DefaultCutoff is the minimum name similarity accepted by DirProvider.
const DefaultCutoff = 0.6

// Provider resolves the ground truth belonging to a result file.
type Provider interface {
	Resolve(resultPath string) (*Sample, error)
}

// DirProvider resolves ground truth from a directory of sample files by
// closest file name. It is safe for concurrent use.
type DirProvider struct {
	dir    string
	stems  []string
	paths  map[string]string // stem -> path
	cutoff float64
}

// NewDirProvider indexes the ground-truth files in dir.
func NewDirProvider(dir string) (*DirProvider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read ground truth directory: %w", err)
	}

	p := &DirProvider{dir: dir, paths: make(map[string]string), cutoff: DefaultCutoff}
	for _, e := range entries {
		if e.IsDir() || !IsTruthFile(e.Name()) {
			continue
		}
		s := stem(e.Name())
		p.stems = append(p.stems, s)
		p.paths[s] = filepath.Join(dir, e.Name())
	}
	if len(p.stems) == 0 {
		return nil, fmt.Errorf("ground truth directory %s: no .yaml, .yml or .json files", dir)
	}
	sort.Strings(p.stems)
	return p, nil
}

// SetCutoff sets the minimum similarity (0-1) for fuzzy name matching.
func (p *DirProvider) SetCutoff(c float64) {
	p.cutoff = c
}

// Len returns the number of indexed ground-truth files.
func (p *DirProvider) Len() int {
	return len(p.stems)
}

// Resolve finds and loads the ground truth whose file name is closest to the
// result file's name.
func (p *DirProvider) Resolve(resultPath string) (*Sample, error) {
	name := resultStem(resultPath)
	s, ok := p.closest(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w in %s", filepath.Base(resultPath), ErrNotFound, p.dir)
	}
	return LoadFile(p.paths[s])
}

// closest picks, in order of preference: an exact stem match, the longest
// stem that prefixes name up to a separator, or the most similar stem above
// the cutoff. Ties go to the lexically first stem.
func (p *DirProvider) closest(name string) (string, bool) {
	if _, ok := p.paths[name]; ok {
		return name, true
	}

	best := ""
	for _, s := range p.stems {
		if len(s) > len(best) && strings.HasPrefix(name, s) && isSeparator(name[len(s)]) {
			best = s
		}
	}
	if best != "" {
		return best, true
	}

	bestRatio := 0.0
	for _, s := range p.stems {
		if r := similarity(name, s); r > bestRatio {
			best, bestRatio = s, r
		}
	}
	if best == "" || bestRatio < p.cutoff {
		return "", false
	}
	return best, true
}

func isSeparator(c byte) bool {
	return c == '-' || c == '_' || c == '.'
}

func resultStem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// similarity is the Ratcliff/Obershelp ratio of a and b compared
// character by character.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
