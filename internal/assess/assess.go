// Package assess matches ground-truth entities against ranked candidates.
package assess

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-pheval/internal/standardise"
	"github.com/inodb/vibe-pheval/internal/truth"
)

// NotFound is the rank of an entity that was absent or failed the threshold.
const NotFound = 0

// MatchResult is the outcome of searching for one ground-truth entity.
type MatchResult struct {
	SampleID string
	Kind     standardise.Kind
	Entity   string
	Rank     int // NotFound when unmatched
}

// Found reports whether the entity was matched.
func (m MatchResult) Found() bool {
	return m.Rank != NotFound
}

// Key returns the sample+entity key used to merge rank records.
func (m MatchResult) Key() string {
	return m.SampleID + "|" + m.Entity
}

// Assessor matches ground truth against ranked candidates, optionally
// requiring the matched score to clear a threshold.
type Assessor struct {
	threshold float64
	order     standardise.SortOrder
	logger    *zap.Logger
}

// New creates an Assessor. A threshold of 0 disables gating; otherwise
// ascending scores must be below it and descending scores above it.
func New(threshold float64, order standardise.SortOrder) *Assessor {
	return &Assessor{
		threshold: threshold,
		order:     order,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (a *Assessor) SetLogger(l *zap.Logger) {
	a.logger = l
}

// passes applies the threshold gate to a matched score.
func (a *Assessor) passes(score float64) bool {
	if a.threshold == 0 {
		return true
	}
	if a.order == standardise.Ascending {
		return a.threshold > score
	}
	return a.threshold < score
}

// firstMatch returns the first ranked candidate satisfying eq.
func firstMatch[T standardise.Scored](ranked []standardise.Ranked[T], eq func(T) bool) (standardise.Ranked[T], bool) {
	for _, r := range ranked {
		if eq(r.Candidate) {
			return r, true
		}
	}
	return standardise.Ranked[T]{}, false
}

func (a *Assessor) outcome(m MatchResult, rank int, score float64, matched bool) MatchResult {
	if !matched {
		return m
	}
	if !a.passes(score) {
		a.logger.Debug("match failed threshold",
			zap.String("sample", m.SampleID),
			zap.String("entity", m.Entity),
			zap.Int("rank", rank),
			zap.Float64("score", score),
			zap.Float64("threshold", a.threshold))
		return m
	}
	m.Rank = rank
	return m
}

// AssessGenes returns one result per causative gene. Genes are matched by
// identifier when the ground truth has one, falling back to the symbol.
func (a *Assessor) AssessGenes(sampleID string, genes []truth.CausativeGene, ranked []standardise.RankedGene) []MatchResult {
	out := make([]MatchResult, 0, len(genes))
	for _, g := range genes {
		m := MatchResult{SampleID: sampleID, Kind: standardise.KindGene, Entity: g.Key()}

		var r standardise.RankedGene
		var ok bool
		if g.Identifier != "" {
			r, ok = firstMatch(ranked, func(c standardise.GeneCandidate) bool {
				return c.GeneIdentifier == g.Identifier
			})
		}
		if !ok && g.Symbol != "" {
			r, ok = firstMatch(ranked, func(c standardise.GeneCandidate) bool {
				return c.GeneSymbol == g.Symbol
			})
		}
		out = append(out, a.outcome(m, r.Rank, r.Score(), ok))
	}
	return out
}

// AssessVariants returns one result per causative variant, matched on exact
// chromosome, position, ref and alt. Ground-truth alleles are normalised the
// same way extracted alleles are.
func (a *Assessor) AssessVariants(sampleID string, variants []truth.CausativeVariant, ranked []standardise.RankedVariant) []MatchResult {
	out := make([]MatchResult, 0, len(variants))
	for _, v := range variants {
		m := MatchResult{SampleID: sampleID, Kind: standardise.KindVariant, Entity: v.Key()}
		ref, alt := standardise.TrimAllele(v.Ref), standardise.TrimAllele(v.Alt)
		r, ok := firstMatch(ranked, func(c standardise.VariantCandidate) bool {
			return c.Chromosome == v.Chrom && c.Start == v.Pos && c.Ref == ref && c.Alt == alt
		})
		out = append(out, a.outcome(m, r.Rank, r.Score(), ok))
	}
	return out
}

// AssessDiseases returns one result per causative disease, matched on the
// disease identifier.
func (a *Assessor) AssessDiseases(sampleID string, diseases []truth.CausativeDisease, ranked []standardise.RankedDisease) []MatchResult {
	out := make([]MatchResult, 0, len(diseases))
	for _, d := range diseases {
		m := MatchResult{SampleID: sampleID, Kind: standardise.KindDisease, Entity: d.Key()}
		r, ok := firstMatch(ranked, func(c standardise.DiseaseCandidate) bool {
			return c.DiseaseIdentifier == d.Identifier
		})
		out = append(out, a.outcome(m, r.Rank, r.Score(), ok))
	}
	return out
}

// Assess evaluates every requested kind of a sample.
func (a *Assessor) Assess(sample *truth.Sample, res *standardise.Result, kinds standardise.Kinds) map[standardise.Kind][]MatchResult {
	out := make(map[standardise.Kind][]MatchResult, len(kinds))
	if kinds.Has(standardise.KindGene) {
		out[standardise.KindGene] = a.AssessGenes(sample.ID, sample.Genes, res.Genes)
	}
	if kinds.Has(standardise.KindVariant) {
		out[standardise.KindVariant] = a.AssessVariants(sample.ID, sample.Variants, res.Variants)
	}
	if kinds.Has(standardise.KindDisease) {
		out[standardise.KindDisease] = a.AssessDiseases(sample.ID, sample.Diseases, res.Diseases)
	}
	return out
}
