package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/inodb/vibe-pheval/internal/standardise"
	"github.com/inodb/vibe-pheval/internal/stats"
)

// SummaryColumns is the header of a benchmark summary file.
var SummaryColumns = []string{
	"directory", "total",
	"top1", "top1_pct",
	"top3", "top3_pct",
	"top5", "top5_pct",
	"top10", "top10_pct",
	"found", "found_pct",
	"mrr",
}

// SummaryPath returns <dir>/<prefix>-<kind>_summary.tsv.
func SummaryPath(dir, prefix string, kind standardise.Kind) string {
	return filepath.Join(dir, fileName(".tsv", prefix, string(kind)+"_summary"))
}

// SummaryWriter writes one summary row per results directory.
type SummaryWriter struct {
	tw *TabWriter
}

// NewSummaryWriter creates a new summary writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{tw: NewTabWriter(w, SummaryColumns)}
}

// WriteHeader writes the header line.
func (s *SummaryWriter) WriteHeader() error {
	return s.tw.WriteHeader()
}

// Write writes a single summary row.
func (s *SummaryWriter) Write(row stats.SummaryRow) error {
	return s.tw.WriteRow(
		row.Label,
		strconv.Itoa(row.Total),
		strconv.Itoa(row.Top1), formatFloat(row.Top1Pct),
		strconv.Itoa(row.Top3), formatFloat(row.Top3Pct),
		strconv.Itoa(row.Top5), formatFloat(row.Top5Pct),
		strconv.Itoa(row.Top10), formatFloat(row.Top10Pct),
		strconv.Itoa(row.Found), formatFloat(row.FoundPct),
		formatFloat(row.MRR),
	)
}

// Flush flushes the writer.
func (s *SummaryWriter) Flush() error {
	return s.tw.Flush()
}

// WriteSummaryFile writes rows to path.
func WriteSummaryFile(path string, rows []stats.SummaryRow) error {
	return writeFile(path, func(w io.Writer) error {
		sw := NewSummaryWriter(w)
		if err := sw.WriteHeader(); err != nil {
			return err
		}
		for _, row := range rows {
			if err := sw.Write(row); err != nil {
				return err
			}
		}
		return sw.Flush()
	})
}

// WriteConsoleSummary prints an aligned summary table for one kind.
func WriteConsoleSummary(w io.Writer, kind standardise.Kind, rows []stats.SummaryRow) error {
	fmt.Fprintf(w, "\n%s prioritisation summary:\n", kind)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Directory\tTotal\tTop1\tTop3\tTop5\tTop10\tFound\tMRR")
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%d\t%d (%.1f%%)\t%d (%.1f%%)\t%d (%.1f%%)\t%d (%.1f%%)\t%d (%.1f%%)\t%.4f\n",
			r.Label, r.Total,
			r.Top1, r.Top1Pct,
			r.Top3, r.Top3Pct,
			r.Top5, r.Top5Pct,
			r.Top10, r.Top10Pct,
			r.Found, r.FoundPct,
			r.MRR,
		)
	}
	return tw.Flush()
}
