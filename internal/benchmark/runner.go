// Package benchmark standardises directories of raw prioritisation results,
// assesses them against ground truth and aggregates rank statistics.
package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-pheval/internal/assess"
	"github.com/inodb/vibe-pheval/internal/cache"
	"github.com/inodb/vibe-pheval/internal/duckdb"
	"github.com/inodb/vibe-pheval/internal/exomiser"
	"github.com/inodb/vibe-pheval/internal/output"
	"github.com/inodb/vibe-pheval/internal/standardise"
	"github.com/inodb/vibe-pheval/internal/stats"
	"github.com/inodb/vibe-pheval/internal/truth"
)

// Config holds the settings shared by every directory of a run.
type Config struct {
	Field     standardise.ScoreField
	Order     standardise.SortOrder // empty selects the field's default
	Threshold float64               // 0 disables gating
	Kinds     standardise.Kinds     // nil selects every kind
	Workers   int                   // 0 uses runtime.NumCPU()

	// PhenotypeOnly marks runs without variant prioritisation; variant
	// results are neither written nor assessed.
	PhenotypeOnly bool
}

// Input is one results directory to benchmark.
type Input struct {
	Label      string // defaults to the base name of ResultsDir
	ResultsDir string
	TruthDir   string
}

func (in Input) label() string {
	if in.Label != "" {
		return in.Label
	}
	return filepath.Base(filepath.Clean(in.ResultsDir))
}

// DirectoryResult is the outcome of benchmarking one directory.
type DirectoryResult struct {
	Label     string
	Samples   int
	Summaries map[standardise.Kind]stats.SummaryRow
	Records   map[standardise.Kind][]assess.MatchResult
}

// Runner benchmarks result directories. A Runner may be shared across
// goroutines; per-directory state lives in RunDirectory.
type Runner struct {
	cfg      Config
	kinds    standardise.Kinds
	std      *standardise.Standardiser
	assessor *assess.Assessor
	cache    *cache.ResultCache
	store    *duckdb.Store
	logger   *zap.Logger
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg Config) *Runner {
	kinds := cfg.Kinds
	if len(kinds) == 0 {
		kinds, _ = standardise.ParseKinds(nil)
	}
	if cfg.PhenotypeOnly {
		kinds = kinds.Without(standardise.KindVariant)
	}
	std := standardise.New(cfg.Field, cfg.Order)
	return &Runner{
		cfg:      cfg,
		kinds:    kinds,
		std:      std,
		assessor: assess.New(cfg.Threshold, std.Order()),
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
	r.assessor.SetLogger(l)
}

// SetCache enables the standardised-result cache.
func (r *Runner) SetCache(c *cache.ResultCache) {
	r.cache = c
}

// SetStore enables persisting runs in DuckDB.
func (r *Runner) SetStore(s *duckdb.Store) {
	r.store = s
}

// Kinds returns the kinds the runner standardises and assesses.
func (r *Runner) Kinds() standardise.Kinds {
	return r.kinds
}

// Order returns the effective sort order.
func (r *Runner) Order() standardise.SortOrder {
	return r.std.Order()
}

// ListResults returns the raw result files in dir, sorted by name.
func ListResults(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read results directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !exomiser.IsResultFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// cacheName identifies a result file in the cache. Files from different
// directories may share a stem, so the name derives from the absolute path.
func cacheName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(abs)).String()
}

// loadResult reads and standardises one raw result file, going through the
// cache when one is set.
func (r *Runner) loadResult(path string) (*standardise.Result, error) {
	var key cache.Key
	name := cacheName(path)
	if r.cache != nil {
		fp, err := cache.StatFile(path)
		if err != nil {
			return nil, fmt.Errorf("stat result file: %w", err)
		}
		key = cache.Key{Source: fp, Field: r.std.Field(), Order: r.std.Order(), Kinds: r.kinds}
		if r.cache.Valid(name, key) {
			res, err := r.cache.Load(name)
			if err == nil {
				return res, nil
			}
			r.logger.Warn("ignoring unreadable cache entry", zap.String("path", path), zap.Error(err))
		}
	}

	raw, err := exomiser.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res := r.std.Standardise(exomiser.Stem(path), raw, r.kinds)

	if r.cache != nil {
		if err := r.cache.Write(name, res, key); err != nil {
			r.logger.Warn("failed to cache standardised result", zap.String("path", path), zap.Error(err))
		}
	}
	return res, nil
}

// StandardiseDir standardises every result file in dir in parallel and calls
// fn for each, in file-name order. The first error stops the run.
func (r *Runner) StandardiseDir(ctx context.Context, dir string, fn func(path string, res *standardise.Result) error) (int, error) {
	paths, err := ListResults(dir)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		r.logger.Warn("no result files found", zap.String("dir", dir))
		return 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := r.ParallelStandardise(feed(ctx, paths), r.cfg.Workers)

	n := 0
	err = OrderedCollect(results, func(w WorkResult) error {
		if w.Err != nil {
			cancel()
			return w.Err
		}
		if err := fn(w.Path, w.Result); err != nil {
			cancel()
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	if err := ctx.Err(); err != nil && n < len(paths) {
		return n, err
	}
	return n, nil
}

// WriteStandardised standardises every result file in resultsDir and writes
// the ranked candidates under outDir.
func (r *Runner) WriteStandardised(ctx context.Context, resultsDir, outDir string) (int, error) {
	n, err := r.StandardiseDir(ctx, resultsDir, func(path string, res *standardise.Result) error {
		written, err := output.WriteResult(outDir, res, r.kinds)
		if err != nil {
			return err
		}
		r.logger.Debug("standardised result",
			zap.String("path", path),
			zap.Int("genes", len(res.Genes)),
			zap.Int("variants", len(res.Variants)),
			zap.Int("diseases", len(res.Diseases)),
			zap.Strings("files", written))
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("standardise %s: %w", resultsDir, err)
	}
	r.logger.Info("standardised results directory", zap.String("dir", resultsDir), zap.Int("files", n))
	return n, nil
}

// RunDirectory benchmarks one results directory. A result file without
// ground truth fails the whole directory.
func (r *Runner) RunDirectory(ctx context.Context, in Input) (*DirectoryResult, error) {
	provider, err := truth.NewDirProvider(in.TruthDir)
	if err != nil {
		return nil, err
	}
	return r.runDirectory(ctx, in, provider)
}

func (r *Runner) runDirectory(ctx context.Context, in Input, provider truth.Provider) (*DirectoryResult, error) {
	label := in.label()
	aggs := make(map[standardise.Kind]*stats.Aggregator)
	for _, kind := range r.kinds.List() {
		aggs[kind] = stats.NewAggregator()
	}

	n, err := r.StandardiseDir(ctx, in.ResultsDir, func(path string, res *standardise.Result) error {
		sample, err := provider.Resolve(path)
		if err != nil {
			return err
		}
		for kind, matches := range r.assessor.Assess(sample, res, r.kinds) {
			aggs[kind].RecordAll(matches)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", label, err)
	}

	out := &DirectoryResult{
		Label:     label,
		Samples:   n,
		Summaries: make(map[standardise.Kind]stats.SummaryRow, len(aggs)),
		Records:   make(map[standardise.Kind][]assess.MatchResult, len(aggs)),
	}
	for kind, agg := range aggs {
		out.Summaries[kind] = agg.Finalize(label)
		out.Records[kind] = agg.Records()
	}
	r.logger.Info("benchmarked results directory",
		zap.String("label", label),
		zap.String("dir", in.ResultsDir),
		zap.Int("samples", n))
	return out, nil
}

// Run benchmarks every input concurrently. Results are returned in input
// order and are only persisted once every directory finished.
func (r *Runner) Run(ctx context.Context, inputs []Input) ([]*DirectoryResult, error) {
	if err := checkLabels(inputs); err != nil {
		return nil, err
	}
	results := make([]*DirectoryResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := r.RunDirectory(ctx, in)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.store != nil {
		if err := r.persist(results); err != nil {
			return results, err
		}
	}
	return results, nil
}

// checkLabels rejects inputs whose labels collide. Stored runs and comparison
// columns are keyed by label.
func checkLabels(inputs []Input) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		label := in.label()
		if dir, dup := seen[label]; dup {
			return fmt.Errorf("%s and %s share the label %q: name them with label=path", dir, in.ResultsDir, label)
		}
		seen[label] = in.ResultsDir
	}
	return nil
}

func (r *Runner) persist(results []*DirectoryResult) error {
	for _, res := range results {
		for _, kind := range r.kinds.List() {
			if err := r.store.WriteRankRecords(res.Label, kind, res.Records[kind]); err != nil {
				return fmt.Errorf("store run %s: %w", res.Label, err)
			}
			if err := r.store.WriteSummary(res.Label, kind, res.Summaries[kind]); err != nil {
				return fmt.Errorf("store run %s: %w", res.Label, err)
			}
		}
		r.logger.Debug("stored run", zap.String("label", res.Label), zap.String("db", r.store.Path()))
	}
	return nil
}
