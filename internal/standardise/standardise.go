package standardise

import "github.com/inodb/vibe-pheval/internal/exomiser"

// Result holds the ranked candidates of one sample.
type Result struct {
	Sample   string
	Genes    []RankedGene
	Variants []RankedVariant
	Diseases []RankedDisease
}

// Standardiser extracts and ranks candidates with a fixed score field and
// sort order. It holds no state between calls.
type Standardiser struct {
	field ScoreField
	order SortOrder
}

// New creates a Standardiser. An empty order selects the field's default.
func New(field ScoreField, order SortOrder) *Standardiser {
	if order == "" {
		order = field.DefaultOrder()
	}
	return &Standardiser{field: field, order: order}
}

// Field returns the score field.
func (s *Standardiser) Field() ScoreField { return s.field }

// Order returns the sort order.
func (s *Standardiser) Order() SortOrder { return s.order }

// Genes extracts and ranks gene candidates.
func (s *Standardiser) Genes(res exomiser.Result) []RankedGene {
	return Rank(ExtractGenes(res, s.field), s.order)
}

// Variants extracts and ranks variant candidates.
func (s *Standardiser) Variants(res exomiser.Result) []RankedVariant {
	return Rank(ExtractVariants(res, s.field), s.order)
}

// Diseases extracts and ranks disease candidates.
func (s *Standardiser) Diseases(res exomiser.Result) []RankedDisease {
	return Rank(ExtractDiseases(res, s.field), s.order)
}

// Standardise produces ranked candidates of the requested kinds.
func (s *Standardiser) Standardise(sample string, res exomiser.Result, kinds Kinds) *Result {
	out := &Result{Sample: sample}
	if kinds.Has(KindGene) {
		out.Genes = s.Genes(res)
	}
	if kinds.Has(KindVariant) {
		out.Variants = s.Variants(res)
	}
	if kinds.Has(KindDisease) {
		out.Diseases = s.Diseases(res)
	}
	return out
}
