package truth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patient1YAML = `
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

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(patient1YAML))
	require.NoError(t, err)
	assert.Equal(t, "patient1", s.ID)
	require.Len(t, s.Genes, 1)
	assert.Equal(t, "FGFR2", s.Genes[0].Key())
	require.Len(t, s.Variants, 1)
	assert.Equal(t, "10-123256215-T-G", s.Variants[0].Key())
	require.Len(t, s.Diseases, 1)
	assert.Equal(t, "OMIM:101600", s.Diseases[0].Key())
}

func TestParse_JSON(t *testing.T) {
	s, err := Parse([]byte(`{"genes": [{"gene_symbol": "BRCA1"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "BRCA1", s.Genes[0].Symbol)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name, doc, msg string
	}{
		{"empty", `sample_id: x`, "no causative"},
		{"gene without identity", "genes:\n  - gene_symbol: \"\"", "no symbol or identifier"},
		{"variant without pos", "variants:\n  - chrom: \"1\"\n    ref: A", "needs chrom, pos and ref"},
		{"disease without id", "diseases:\n  - disease_name: x", "no identifier"},
		{"bad yaml", "genes: [", "parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadFile_DefaultsIDToStem(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "case-7.yml", "genes:\n  - gene_symbol: TP53\n")

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "case-7", s.ID)
	assert.Equal(t, path, s.Source)
}

func TestLoadFile_ErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "sample_id: x\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestDirProvider_Resolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "patient1.yaml", patient1YAML)
	writeFile(t, dir, "patient10.yaml", "genes:\n  - gene_symbol: TP53\n")
	writeFile(t, dir, "README.md", "ignored")

	p, err := NewDirProvider(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	tests := []struct {
		result, wantID string
	}{
		{"/results/patient1.json", "patient1"},
		{"/results/patient10.json.gz", "patient10"},
		{"/results/patient1-exomiser.json", "patient1"},
		{"/results/patient10_exomiser.json", "patient10"},
		{"/results/patiant1.json", "patient1"},
	}
	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			s, err := p.Resolve(tt.result)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, s.ID)
		})
	}
}

func TestDirProvider_NotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "patient1.yaml", patient1YAML)

	p, err := NewDirProvider(dir)
	require.NoError(t, err)

	_, err = p.Resolve("/results/zzzzzzzzzzzz.json")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewDirProvider_Empty(t *testing.T) {
	_, err := NewDirProvider(t.TempDir())
	assert.Error(t, err)

	_, err = NewDirProvider(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("abc", "abc"))
	assert.Equal(t, 0.0, similarity("abc", "xyz"))
	assert.InDelta(t, 0.75, similarity("abcd", "bcde"), 1e-9)
	assert.Equal(t, 1.0, similarity("", ""))
	// "patient_1" against "patient1": 8 matched characters over 17.
	assert.InDelta(t, 16.0/17.0, similarity("patient_1", "patient1"), 1e-9)
}
