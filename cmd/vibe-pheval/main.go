// Package main provides the vibe-pheval command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".vibe-pheval"

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "vibe-pheval",
		Short: "Benchmark phenotype-driven variant prioritisation",
		Long: `vibe-pheval standardises Exomiser JSON results into ranked gene, variant and
disease tables and benchmarks them against ground-truth diagnoses.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(opts.cfgFile); err != nil {
				return err
			}
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default ~/"+configName+".yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose (debug) logging")

	cmd.AddCommand(newStandardiseCmd(opts))
	cmd.AddCommand(newBenchmarkCmd(opts))
	cmd.AddCommand(newCompareCmd(opts))
	cmd.AddCommand(newCompareRunsCmd(opts))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-pheval version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// newLogger builds a development logger when verbose, a production logger
// otherwise. Both write to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}

// setDefaults registers the default of every configuration key.
func setDefaults() {
	viper.SetDefault("post_process.score_name", "combinedScore")
	viper.SetDefault("post_process.score_order", "")
	viper.SetDefault("post_process.phenotype_only", false)
	viper.SetDefault("benchmark.threshold", 0.0)
	viper.SetDefault("benchmark.kinds", []string{"gene", "variant", "disease"})
	viper.SetDefault("benchmark.workers", 0)
	viper.SetDefault("benchmark.db", "")
	viper.SetDefault("cache.dir", "")
}

// initConfig loads .env, the config file and VIBE_PHEVAL_* environment
// variables. A missing config file is not an error.
func initConfig(cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VIBE_PHEVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// defaultConfigFile returns the config file to write to.
func defaultConfigFile() (string, error) {
	if f := viper.ConfigFileUsed(); f != "" {
		return f, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}
