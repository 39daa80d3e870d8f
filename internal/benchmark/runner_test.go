package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-pheval/internal/assess"
	"github.com/inodb/vibe-pheval/internal/cache"
	"github.com/inodb/vibe-pheval/internal/duckdb"
	"github.com/inodb/vibe-pheval/internal/exomiser"
	"github.com/inodb/vibe-pheval/internal/standardise"
	"github.com/inodb/vibe-pheval/internal/truth"
)

const patientYAML = `
sample_id: patient1
genes:
  - gene_symbol: FGFR2
    gene_identifier: ENSG00000066468
variants:
  - chrom: "10"
    pos: 123256215
    ref: T
    alt: G
    gene: FGFR2
diseases:
  - disease_identifier: OMIM:101600
    disease_name: Pfeiffer syndrome
`

// resultJSON returns an Exomiser result with FGFR2 and BRCA1 scored as given.
func resultJSON(fgfr2, brca1 float64) string {
	return fmt.Sprintf(`[
  {
    "geneSymbol": "FGFR2",
    "geneIdentifier": {"geneId": "ENSG00000066468", "geneSymbol": "FGFR2"},
    "combinedScore": %[1]g,
    "geneScores": [
      {
        "geneIdentifier": {"geneId": "ENSG00000066468", "geneSymbol": "FGFR2"},
        "modeOfInheritance": "AUTOSOMAL_DOMINANT",
        "combinedScore": %[1]g,
        "contributingVariants": [
          {"contigName": "10", "start": 123256215, "end": 123256215, "ref": "T", "alt": "G"}
        ]
      }
    ],
    "priorityResults": {
      "HIPHIVE_PRIORITY": {
        "diseaseMatches": [
          {"model": {"diseaseId": "OMIM:101600", "diseaseName": "Pfeiffer syndrome"}, "score": 0.9}
        ]
      }
    }
  },
  {
    "geneSymbol": "BRCA1",
    "geneIdentifier": {"geneId": "ENSG00000012048", "geneSymbol": "BRCA1"},
    "combinedScore": %[2]g,
    "geneScores": []
  }
]`, fgfr2, brca1)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fixture creates a results directory and a matching ground-truth directory.
func fixture(t *testing.T, root, name string, fgfr2, brca1 float64) Input {
	t.Helper()
	results := filepath.Join(root, name)
	writeFile(t, results, "patient1.json", resultJSON(fgfr2, brca1))
	truthDir := filepath.Join(root, "truth")
	writeFile(t, truthDir, "patient1.yaml", patientYAML)
	return Input{ResultsDir: results, TruthDir: truthDir}
}

func TestRunDirectory_EndToEnd(t *testing.T) {
	in := fixture(t, t.TempDir(), "exomiser_run", 0.95, 0.6)
	r := NewRunner(Config{Field: standardise.CombinedScore})

	res, err := r.RunDirectory(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "exomiser_run", res.Label)
	assert.Equal(t, 1, res.Samples)
	for _, kind := range standardise.AllKinds {
		row := res.Summaries[kind]
		assert.Equal(t, 1, row.Total, kind)
		assert.Equal(t, 1, row.Top1, kind)
		assert.Equal(t, 1, row.Found, kind)
		assert.Equal(t, 1.0, row.MRR, kind)
		assert.Equal(t, 100.0, row.Top1Pct, kind)
	}
	assert.Equal(t, []assess.MatchResult{
		{SampleID: "patient1", Kind: standardise.KindGene, Entity: "FGFR2", Rank: 1},
	}, res.Records[standardise.KindGene])
}

func TestRunDirectory_ThresholdGatesMatch(t *testing.T) {
	in := fixture(t, t.TempDir(), "run", 0.95, 0.6)
	r := NewRunner(Config{
		Field:     standardise.CombinedScore,
		Threshold: 0.99,
		Kinds:     standardise.Kinds{standardise.KindGene: true},
	})

	res, err := r.RunDirectory(context.Background(), in)
	require.NoError(t, err)
	row := res.Summaries[standardise.KindGene]
	assert.Equal(t, 1, row.Total)
	assert.Equal(t, 0, row.Found)
	assert.Equal(t, 0.0, row.MRR)
	_, hasVariant := res.Summaries[standardise.KindVariant]
	assert.False(t, hasVariant)
}

func TestRunDirectory_MissingTruth(t *testing.T) {
	root := t.TempDir()
	in := fixture(t, root, "run", 0.95, 0.6)
	writeFile(t, in.ResultsDir, "zzz_unrelated_sample.json", resultJSON(0.5, 0.4))

	_, err := NewRunner(Config{Field: standardise.CombinedScore}).RunDirectory(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, truth.ErrNotFound))
}

func TestRunDirectory_MalformedResult(t *testing.T) {
	in := fixture(t, t.TempDir(), "run", 0.95, 0.6)
	writeFile(t, in.ResultsDir, "patient2.json", `{"not": "a list"}`)

	_, err := NewRunner(Config{Field: standardise.CombinedScore}).RunDirectory(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exomiser.ErrNotAResult))
	assert.Contains(t, err.Error(), "patient2.json")
}

func TestRun_MultipleDirectoriesAndStore(t *testing.T) {
	root := t.TempDir()
	a := fixture(t, root, "run_a", 0.95, 0.6)
	b := fixture(t, root, "run_b", 0.5, 0.99)

	store, err := duckdb.Open("")
	require.NoError(t, err)
	defer store.Close()

	r := NewRunner(Config{Field: standardise.CombinedScore, Workers: 2})
	r.SetStore(store)

	results, err := r.Run(context.Background(), []Input{a, b})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "run_a", results[0].Label)
	assert.Equal(t, "run_b", results[1].Label)
	assert.Equal(t, 2, results[1].Records[standardise.KindGene][0].Rank)

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"run_a", "run_b"}, runs)

	stored, err := LoadStored(store, []string{"run_b", "run_a"}, r.Kinds())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "run_b", stored[0].Label)
	assert.Equal(t, results[1].Records[standardise.KindGene], stored[0].Records[standardise.KindGene])
	assert.Equal(t, 1, stored[1].Summaries[standardise.KindGene].Top1)

	_, err = LoadStored(store, []string{"missing"}, r.Kinds())
	assert.Error(t, err)

	_, err = LoadStored(store, []string{"run_a", "run_a"}, r.Kinds())
	assert.Error(t, err)
}

func TestRun_FailsWhenAnyDirectoryFails(t *testing.T) {
	root := t.TempDir()
	a := fixture(t, root, "run_a", 0.95, 0.6)
	bad := Input{Label: "bad", ResultsDir: filepath.Join(root, "run_a"), TruthDir: filepath.Join(root, "no_truth")}

	_, err := NewRunner(Config{Field: standardise.CombinedScore}).Run(context.Background(), []Input{a, bad})
	assert.Error(t, err)
}

func TestRun_DuplicateLabels(t *testing.T) {
	root := t.TempDir()
	a := fixture(t, filepath.Join(root, "v13"), "exomiser_results", 0.95, 0.6)
	b := fixture(t, filepath.Join(root, "v14"), "exomiser_results", 0.5, 0.99)

	store, err := duckdb.Open("")
	require.NoError(t, err)
	defer store.Close()
	r := NewRunner(Config{Field: standardise.CombinedScore})
	r.SetStore(store)

	_, err = r.Run(context.Background(), []Input{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"exomiser_results"`)
	assert.Contains(t, err.Error(), "label=path")

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs, "nothing stored")

	a.Label, b.Label = "v13", "v14"
	results, err := r.Run(context.Background(), []Input{a, b})
	require.NoError(t, err)
	assert.Equal(t, "v13", results[0].Label)
	assert.Equal(t, "v14", results[1].Label)

	runs, err = store.Runs()
	require.NoError(t, err)
	assert.Equal(t, []string{"v13", "v14"}, runs)
}

func TestWriteStandardised_PhenotypeOnly(t *testing.T) {
	root := t.TempDir()
	in := fixture(t, root, "run", 0.95, 0.6)
	out := filepath.Join(root, "out")

	r := NewRunner(Config{Field: standardise.CombinedScore, PhenotypeOnly: true})
	assert.False(t, r.Kinds().Has(standardise.KindVariant))

	n, err := r.WriteStandardised(context.Background(), in.ResultsDir, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(out, "pheval_gene_results", "patient1-pheval_gene_result.tsv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1\t0.95\tFGFR2\tENSG00000066468", lines[1])

	_, err = os.Stat(filepath.Join(out, "pheval_disease_results"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "pheval_variant_results"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteStandardised_EmptyDirectory(t *testing.T) {
	n, err := NewRunner(Config{Field: standardise.CombinedScore}).WriteStandardised(context.Background(), t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunDirectory_Cache(t *testing.T) {
	root := t.TempDir()
	in := fixture(t, root, "run", 0.95, 0.6)
	cacheDir := filepath.Join(root, "cache")

	r := NewRunner(Config{Field: standardise.CombinedScore})
	r.SetCache(cache.NewResultCache(cacheDir))

	first, err := r.RunDirectory(context.Background(), in)
	require.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "one .gob and one .gob.meta file")

	second, err := r.RunDirectory(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCacheName(t *testing.T) {
	assert.Equal(t, cacheName("a/patient1.json"), cacheName("a/patient1.json"))
	assert.NotEqual(t, cacheName("a/patient1.json"), cacheName("b/patient1.json"))
}
