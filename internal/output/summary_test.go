package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-pheval/internal/standardise"
	"github.com/inodb/vibe-pheval/internal/stats"
)

func TestSummaryPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "exomiser-gene_summary.tsv"), SummaryPath("out", "exomiser", standardise.KindGene))
	assert.Equal(t, filepath.Join("out", "variant_summary.tsv"), SummaryPath("out", "", standardise.KindVariant))
}

func TestWriteSummaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run-gene_summary.tsv")
	rows := []stats.SummaryRow{
		{Label: "dir1", Total: 1, Top1: 1, Top1Pct: 100, Top3: 1, Top3Pct: 100,
			Top5: 1, Top5Pct: 100, Top10: 1, Top10Pct: 100, Found: 1, FoundPct: 100, MRR: 1},
		{Label: "empty"},
	}

	require.NoError(t, WriteSummaryFile(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(SummaryColumns, "\t"), lines[0])
	assert.Equal(t, "dir1\t1\t1\t100.0000\t1\t100.0000\t1\t100.0000\t1\t100.0000\t1\t100.0000\t1.0000", lines[1])
	assert.Equal(t, "empty\t0\t0\t0.0000\t0\t0.0000\t0\t0.0000\t0\t0.0000\t0\t0.0000\t0.0000", lines[2])
}

func TestWriteConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsoleSummary(&buf, standardise.KindGene, []stats.SummaryRow{
		{Label: "exomiser_run", Total: 4, Top1: 2, Top1Pct: 50, Found: 3, FoundPct: 75, MRR: 0.625},
	}))

	out := buf.String()
	assert.Contains(t, out, "gene prioritisation summary:")
	assert.Contains(t, out, "exomiser_run")
	assert.Contains(t, out, "2 (50.0%)")
	assert.Contains(t, out, "0.6250")
}
