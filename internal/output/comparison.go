package output

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/inodb/vibe-pheval/internal/assess"
	"github.com/inodb/vibe-pheval/internal/compare"
	"github.com/inodb/vibe-pheval/internal/standardise"
)

// RankRecordsPath returns <dir>/<prefix>-<kind>_rank_comparison.tsv, the rank
// records of a single directory.
func RankRecordsPath(dir, prefix string, kind standardise.Kind) string {
	return filepath.Join(dir, fileName(".tsv", prefix, string(kind)+"_rank_comparison"))
}

// ComparisonPath returns <dir>/<prefix>-<name>-<kind>_rank_comparison.tsv
// where name is the pair name of the comparison.
func ComparisonPath(dir, prefix, name string, kind standardise.Kind) string {
	return filepath.Join(dir, fileName(".tsv", prefix, name, string(kind)+"_rank_comparison"))
}

// WriteRankRecords writes the rank of every ground-truth entity of one run.
// The rank column is named after the run label.
func WriteRankRecords(w io.Writer, label string, records []assess.MatchResult) error {
	tw := NewTabWriter(w, []string{"sample_id", "entity", label})
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, m := range records {
		if err := tw.WriteRow(m.SampleID, m.Entity, strconv.Itoa(m.Rank)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteRankRecordsFile writes records to path.
func WriteRankRecordsFile(path, label string, records []assess.MatchResult) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteRankRecords(w, label, records)
	})
}

// Change categories counted by ComparisonWriter.
const (
	CatGained    = "gained"
	CatLost      = "lost"
	CatImproved  = "improved"
	CatWorsened  = "worsened"
	CatUnchanged = "unchanged"
	CatUndefined = "undefined"
)

// ComparisonWriter writes a pairwise rank comparison and counts rows per
// change category.
type ComparisonWriter struct {
	tw     *TabWriter
	counts map[string]int
	total  int
}

// NewComparisonWriter creates a writer for a comparison between labelA and
// labelB. The rank columns are named after the labels.
func NewComparisonWriter(w io.Writer, labelA, labelB string) *ComparisonWriter {
	return &ComparisonWriter{
		tw:     NewTabWriter(w, []string{"sample_id", "entity", labelA, labelB, "rank_change"}),
		counts: make(map[string]int),
	}
}

// WriteHeader writes the header line.
func (c *ComparisonWriter) WriteHeader() error {
	return c.tw.WriteHeader()
}

// Write writes a single merged row.
func (c *ComparisonWriter) Write(row compare.Row) error {
	c.total++
	c.counts[category(row.Change)]++
	return c.tw.WriteRow(row.SampleID, row.Entity, formatRank(row.RankA), formatRank(row.RankB), row.Change.String())
}

// Flush flushes the writer.
func (c *ComparisonWriter) Flush() error {
	return c.tw.Flush()
}

// Total returns the number of rows written.
func (c *ComparisonWriter) Total() int {
	return c.total
}

// Counts returns the row count per change category.
func (c *ComparisonWriter) Counts() map[string]int {
	return c.counts
}

// WriteSummary writes category counts to w, largest first.
func (c *ComparisonWriter) WriteSummary(w io.Writer, name string) {
	fmt.Fprintf(w, "\n%s (%d entities):\n", name, c.total)

	type catCount struct {
		cat   string
		count int
	}
	var sorted []catCount
	for cat, count := range c.counts {
		sorted = append(sorted, catCount{cat, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].cat < sorted[j].cat
	})
	for _, cc := range sorted {
		fmt.Fprintf(w, "    %-12s%d\n", cc.cat, cc.count)
	}
}

// category maps a rank change to a summary category. A lower rank is better.
func category(ch compare.Change) string {
	switch ch.Kind {
	case compare.ChangeGained:
		return CatGained
	case compare.ChangeLost:
		return CatLost
	case compare.ChangeDelta:
		switch {
		case ch.Delta < 0:
			return CatImproved
		case ch.Delta > 0:
			return CatWorsened
		}
		return CatUnchanged
	}
	return CatUndefined
}

// WriteComparison writes every row of t.
func WriteComparison(w io.Writer, t *compare.Table) (*ComparisonWriter, error) {
	cw := NewComparisonWriter(w, t.LabelA, t.LabelB)
	if err := cw.WriteHeader(); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	return cw, cw.Flush()
}

// WriteComparisonFile writes t to path and returns the writer for its counts.
func WriteComparisonFile(path string, t *compare.Table) (*ComparisonWriter, error) {
	var cw *ComparisonWriter
	err := writeFile(path, func(w io.Writer) error {
		var err error
		cw, err = WriteComparison(w, t)
		return err
	})
	return cw, err
}
