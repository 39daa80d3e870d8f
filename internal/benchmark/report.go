package benchmark

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/inodb/vibe-pheval/internal/assess"
	"github.com/inodb/vibe-pheval/internal/compare"
	"github.com/inodb/vibe-pheval/internal/duckdb"
	"github.com/inodb/vibe-pheval/internal/output"
	"github.com/inodb/vibe-pheval/internal/standardise"
	"github.com/inodb/vibe-pheval/internal/stats"
)

// Report writes the summary and comparison files of finished runs.
type Report struct {
	OutDir string
	Prefix string
	Kinds  standardise.Kinds

	// Console receives the summary tables and comparison counts when set.
	Console io.Writer
	Logger  *zap.Logger
}

// Write writes, per kind, one summary file and either the rank records of a
// single run or a comparison file for every pair of runs. Runs without a
// summary for a kind are left out of that kind; a kind no run has is skipped.
// It returns the paths written.
func (rp *Report) Write(results []*DirectoryResult) ([]string, error) {
	logger := rp.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var paths []string
	for _, kind := range rp.Kinds.List() {
		var present []*DirectoryResult
		rows := make([]stats.SummaryRow, 0, len(results))
		for _, res := range results {
			row, ok := res.Summaries[kind]
			if !ok {
				logger.Warn("run has no results of this kind",
					zap.String("run", res.Label), zap.String("kind", string(kind)))
				continue
			}
			present = append(present, res)
			rows = append(rows, row)
		}
		if len(present) == 0 {
			logger.Warn("skipping kind: no run has results", zap.String("kind", string(kind)))
			continue
		}

		path := output.SummaryPath(rp.OutDir, rp.Prefix, kind)
		if err := output.WriteSummaryFile(path, rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		if rp.Console != nil {
			if err := output.WriteConsoleSummary(rp.Console, kind, rows); err != nil {
				return paths, fmt.Errorf("write console summary: %w", err)
			}
		}

		if len(present) == 1 {
			path := output.RankRecordsPath(rp.OutDir, rp.Prefix, kind)
			if err := output.WriteRankRecordsFile(path, present[0].Label, present[0].Records[kind]); err != nil {
				return paths, err
			}
			paths = append(paths, path)
			continue
		}

		sources := make([]compare.Source, len(present))
		for i, res := range present {
			sources[i] = compare.Source{Label: res.Label, Records: res.Records[kind]}
		}
		for _, tbl := range compare.AllPairs(sources...) {
			path := output.ComparisonPath(rp.OutDir, rp.Prefix, tbl.Name, kind)
			cw, err := output.WriteComparisonFile(path, tbl)
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
			if rp.Console != nil {
				cw.WriteSummary(rp.Console, fmt.Sprintf("%s %s", tbl.Name, kind))
			}
		}
	}
	return paths, nil
}

// LoadStored rebuilds the results of stored runs, in the order given.
func LoadStored(store *duckdb.Store, runs []string, kinds standardise.Kinds) ([]*DirectoryResult, error) {
	summaries := make(map[standardise.Kind]map[string]stats.SummaryRow)
	for _, kind := range kinds.List() {
		rows, err := store.Summaries(kind)
		if err != nil {
			return nil, err
		}
		byRun := make(map[string]stats.SummaryRow, len(rows))
		for _, row := range rows {
			byRun[row.Label] = row
		}
		summaries[kind] = byRun
	}

	known, err := store.Runs()
	if err != nil {
		return nil, err
	}
	exists := make(map[string]bool, len(known))
	for _, run := range known {
		exists[run] = true
	}

	var out []*DirectoryResult
	requested := make(map[string]bool, len(runs))
	for _, run := range runs {
		if requested[run] {
			return nil, fmt.Errorf("run %q given more than once", run)
		}
		requested[run] = true
		if !exists[run] {
			return nil, fmt.Errorf("run %q not found in %s", run, store.Path())
		}
		res := &DirectoryResult{
			Label:     run,
			Summaries: make(map[standardise.Kind]stats.SummaryRow),
			Records:   make(map[standardise.Kind][]assess.MatchResult),
		}
		for _, kind := range kinds.List() {
			records, err := store.LookupRankRecords(run, kind)
			if err != nil {
				return nil, err
			}
			res.Records[kind] = records
			if row, ok := summaries[kind][run]; ok {
				res.Summaries[kind] = row
			}
		}
		out = append(out, res)
	}
	return out, nil
}
