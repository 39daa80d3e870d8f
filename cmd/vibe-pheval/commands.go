package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-pheval/internal/benchmark"
	"github.com/inodb/vibe-pheval/internal/cache"
	"github.com/inodb/vibe-pheval/internal/duckdb"
	"github.com/inodb/vibe-pheval/internal/standardise"
)

// flagKeys maps command flags to the configuration keys they override.
var flagKeys = map[string]string{
	"score-name":     "post_process.score_name",
	"score-order":    "post_process.score_order",
	"phenotype-only": "post_process.phenotype_only",
	"threshold":      "benchmark.threshold",
	"kinds":          "benchmark.kinds",
	"workers":        "benchmark.workers",
	"db":             "benchmark.db",
	"cache-dir":      "cache.dir",
}

// bindFlags binds the flags of cmd to their configuration keys. Binding
// happens at run time so each command binds its own flag set.
func bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = viper.BindPFlag(key, f)
	})
	return err
}

// addStandardiseFlags registers the flags that control standardisation.
func addStandardiseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("score-name", "combinedScore", "score to rank by: "+strings.Join(scoreFieldNames(), ", "))
	f.String("score-order", "", "ascending or descending (default depends on the score)")
	f.Bool("phenotype-only", false, "phenotype-only run: skip variant results")
	f.StringSlice("kinds", []string{"gene", "variant", "disease"}, "entity kinds to process")
	f.Int("workers", 0, "parallel workers per directory (0 = all CPUs)")
	f.String("cache-dir", "", "cache standardised results in this directory")
}

// addBenchmarkFlags registers the flags shared by benchmark and compare.
func addBenchmarkFlags(cmd *cobra.Command, o *reportOptions) {
	addStandardiseFlags(cmd)
	f := cmd.Flags()
	f.Float64("threshold", 0, "score threshold for a match to count (0 disables)")
	f.String("db", "", "store rank records and summaries in this DuckDB file")
	f.StringVarP(&o.truthDir, "truth-dir", "t", "", "directory of ground-truth files (required)")
	f.StringVarP(&o.outDir, "output-dir", "o", ".", "directory for summary and comparison files")
	f.StringVarP(&o.prefix, "prefix", "p", "", "file name prefix for outputs")
	_ = cmd.MarkFlagRequired("truth-dir")
}

func scoreFieldNames() []string {
	names := make([]string, len(standardise.ScoreFields))
	for i, f := range standardise.ScoreFields {
		names[i] = string(f)
	}
	return names
}

// runnerConfig reads the benchmark configuration from viper.
func runnerConfig() (benchmark.Config, error) {
	field, err := standardise.ParseScoreField(viper.GetString("post_process.score_name"))
	if err != nil {
		return benchmark.Config{}, err
	}
	order, err := standardise.ParseSortOrder(viper.GetString("post_process.score_order"))
	if err != nil {
		return benchmark.Config{}, err
	}
	kinds, err := standardise.ParseKinds(viper.GetStringSlice("benchmark.kinds"))
	if err != nil {
		return benchmark.Config{}, err
	}
	threshold := viper.GetFloat64("benchmark.threshold")
	if threshold < 0 {
		return benchmark.Config{}, fmt.Errorf("threshold must not be negative, got %g", threshold)
	}
	return benchmark.Config{
		Field:         field,
		Order:         order,
		Threshold:     threshold,
		Kinds:         kinds,
		Workers:       viper.GetInt("benchmark.workers"),
		PhenotypeOnly: viper.GetBool("post_process.phenotype_only"),
	}, nil
}

// newRunner builds a runner with the configured cache and store. The
// returned close function releases the store.
func newRunner(logger *zap.Logger, withStore bool) (*benchmark.Runner, func(), error) {
	cfg, err := runnerConfig()
	if err != nil {
		return nil, nil, err
	}
	r := benchmark.NewRunner(cfg)
	r.SetLogger(logger)

	if dir := viper.GetString("cache.dir"); dir != "" {
		r.SetCache(cache.NewResultCache(dir))
		logger.Debug("using result cache", zap.String("dir", dir))
	}

	closeFn := func() {}
	if path := viper.GetString("benchmark.db"); withStore && path != "" {
		store, err := duckdb.Open(path)
		if err != nil {
			return nil, nil, err
		}
		r.SetStore(store)
		closeFn = func() { store.Close() }
		logger.Debug("storing runs", zap.String("db", path))
	}

	logger.Debug("benchmark settings",
		zap.String("score_name", string(cfg.Field)),
		zap.String("score_order", string(r.Order())),
		zap.Float64("threshold", cfg.Threshold),
		zap.Bool("phenotype_only", cfg.PhenotypeOnly))
	return r, closeFn, nil
}

func newStandardiseCmd(root *rootOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "standardise <results-dir>",
		Short: "Write ranked gene, variant and disease tables for every result file",
		Example: `  vibe-pheval standardise exomiser_results/ -o pheval_results/
  vibe-pheval standardise --score-name pValue --phenotype-only results/ -o out/`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := newRunner(root.logger, false)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := r.WriteStandardised(cmd.Context(), args[0], outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Standardised %d result files into %s\n", n, outDir)
			return nil
		},
	}
	addStandardiseFlags(cmd)
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "output directory (required)")
	_ = cmd.MarkFlagRequired("output-dir")
	return cmd
}

// reportOptions holds the output flags of benchmark and compare.
type reportOptions struct {
	truthDir string
	outDir   string
	prefix   string
}

// parseInput accepts "path" or "label=path".
func parseInput(arg, truthDir string) benchmark.Input {
	in := benchmark.Input{ResultsDir: arg, TruthDir: truthDir}
	if label, path, ok := strings.Cut(arg, "="); ok && label != "" && path != "" {
		in.Label, in.ResultsDir = label, path
	}
	return in
}

func runBenchmark(cmd *cobra.Command, root *rootOptions, o *reportOptions, args []string) error {
	r, closeFn, err := newRunner(root.logger, true)
	if err != nil {
		return err
	}
	defer closeFn()

	inputs := make([]benchmark.Input, len(args))
	for i, arg := range args {
		inputs[i] = parseInput(arg, o.truthDir)
	}

	results, err := r.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}
	return writeReport(cmd.ErrOrStderr(), root.logger, r.Kinds(), o, results)
}

func writeReport(console io.Writer, logger *zap.Logger, kinds standardise.Kinds, o *reportOptions, results []*benchmark.DirectoryResult) error {
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	rp := &benchmark.Report{OutDir: o.outDir, Prefix: o.prefix, Kinds: kinds, Console: console, Logger: logger}
	paths, err := rp.Write(results)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Info("wrote output", zap.String("path", p))
	}
	return nil
}

func newBenchmarkCmd(root *rootOptions) *cobra.Command {
	o := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "benchmark <results-dir>",
		Short: "Benchmark one results directory against ground truth",
		Example: `  vibe-pheval benchmark exomiser_results/ -t phenopackets/ -o out/ -p exomiser
  vibe-pheval benchmark --score-name pValue --threshold 0.05 results/ -t truth/`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, root, o, args)
		},
	}
	addBenchmarkFlags(cmd, o)
	return cmd
}

func newCompareCmd(root *rootOptions) *cobra.Command {
	o := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "compare <results-dir> <results-dir> [results-dir...]",
		Short: "Benchmark several results directories and compare every pair",
		Long: `Benchmark several results directories concurrently against the same ground
truth and write a rank comparison for every pair. A directory may be given a
label with label=path; the label defaults to the directory name.`,
		Example: `  vibe-pheval compare v13=exomiser_13/ v14=exomiser_14/ -t truth/ -o out/`,
		Args:    cobra.MinimumNArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, root, o, args)
		},
	}
	addBenchmarkFlags(cmd, o)
	return cmd
}

func newCompareRunsCmd(root *rootOptions) *cobra.Command {
	o := &reportOptions{}
	var list bool
	cmd := &cobra.Command{
		Use:   "compare-runs [run...]",
		Short: "Compare runs stored in the DuckDB result store",
		Example: `  vibe-pheval compare-runs --db runs.duckdb --list
  vibe-pheval compare-runs --db runs.duckdb v13 v14 -o out/`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("benchmark.db")
			if path == "" {
				return fmt.Errorf("no result store: set --db or benchmark.db")
			}
			store, err := duckdb.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			if list {
				runs, err := store.Runs()
				if err != nil {
					return err
				}
				for _, run := range runs {
					fmt.Fprintln(cmd.OutOrStdout(), run)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("at least one run label is required")
			}

			kinds, err := standardise.ParseKinds(viper.GetStringSlice("benchmark.kinds"))
			if err != nil {
				return err
			}
			results, err := benchmark.LoadStored(store, args, kinds)
			if err != nil {
				return err
			}
			return writeReport(cmd.ErrOrStderr(), root.logger, kinds, o, results)
		},
	}
	f := cmd.Flags()
	f.String("db", "", "DuckDB result store")
	f.StringSlice("kinds", []string{"gene", "variant", "disease"}, "entity kinds to compare")
	f.BoolVar(&list, "list", false, "list stored runs")
	f.StringVarP(&o.outDir, "output-dir", "o", ".", "directory for summary and comparison files")
	f.StringVarP(&o.prefix, "prefix", "p", "", "file name prefix for outputs")
	return cmd
}
