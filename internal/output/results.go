package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/inodb/vibe-pheval/internal/standardise"
)

var (
	GeneColumns    = []string{"rank", "score", "gene_symbol", "gene_identifier"}
	VariantColumns = []string{"rank", "score", "chromosome", "start", "end", "ref", "alt", "gene_symbol", "grouping_id"}
	DiseaseColumns = []string{"rank", "score", "disease_identifier", "disease_name"}
)

// ResultPath returns the standardised result file of one sample, e.g.
// <dir>/pheval_gene_results/<stem>-pheval_gene_result.tsv.
func ResultPath(dir string, kind standardise.Kind, stem string) string {
	return filepath.Join(dir,
		fmt.Sprintf("pheval_%s_results", kind),
		fmt.Sprintf("%s-pheval_%s_result.tsv", stem, kind))
}

// WriteGenes writes ranked genes with a header.
func WriteGenes(w io.Writer, ranked []standardise.RankedGene) error {
	tw := NewTabWriter(w, GeneColumns)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range ranked {
		c := r.Candidate
		if err := tw.WriteRow(strconv.Itoa(r.Rank), formatScore(c.Score), c.GeneSymbol, c.GeneIdentifier); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteVariants writes ranked variants with a header.
func WriteVariants(w io.Writer, ranked []standardise.RankedVariant) error {
	tw := NewTabWriter(w, VariantColumns)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range ranked {
		c := r.Candidate
		err := tw.WriteRow(
			strconv.Itoa(r.Rank),
			formatScore(c.Score),
			c.Chromosome,
			strconv.FormatInt(c.Start, 10),
			strconv.FormatInt(c.End, 10),
			c.Ref,
			c.Alt,
			c.GeneSymbol,
			c.GroupingKey.String(),
		)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteDiseases writes ranked diseases with a header.
func WriteDiseases(w io.Writer, ranked []standardise.RankedDisease) error {
	tw := NewTabWriter(w, DiseaseColumns)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range ranked {
		c := r.Candidate
		if err := tw.WriteRow(strconv.Itoa(r.Rank), formatScore(c.Score), c.DiseaseIdentifier, c.DiseaseName); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteResult writes one file per requested kind under dir and returns the
// paths written.
func WriteResult(dir string, res *standardise.Result, kinds standardise.Kinds) ([]string, error) {
	var paths []string
	for _, kind := range kinds.List() {
		path := ResultPath(dir, kind, res.Sample)
		var fn func(io.Writer) error
		switch kind {
		case standardise.KindGene:
			fn = func(w io.Writer) error { return WriteGenes(w, res.Genes) }
		case standardise.KindVariant:
			fn = func(w io.Writer) error { return WriteVariants(w, res.Variants) }
		case standardise.KindDisease:
			fn = func(w io.Writer) error { return WriteDiseases(w, res.Diseases) }
		}
		if err := writeFile(path, fn); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
