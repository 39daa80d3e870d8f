package standardise

import "github.com/google/uuid"

// GeneCandidate is a flattened, scored gene.
type GeneCandidate struct {
	GeneSymbol     string
	GeneIdentifier string
	Score          float64
}

// VariantCandidate is a flattened, scored contributing variant.
type VariantCandidate struct {
	Chromosome  string
	Start       int64
	End         int64
	Ref         string
	Alt         string
	GeneSymbol  string
	Score       float64
	GroupingKey uuid.UUID // shared by variants of one scored call
}

// DiseaseCandidate is a flattened, scored disease.
type DiseaseCandidate struct {
	DiseaseIdentifier string
	DiseaseName       string
	Score             float64
}

// Scored is implemented by every candidate kind.
type Scored interface {
	CandidateScore() float64
}

func (c GeneCandidate) CandidateScore() float64    { return c.Score }
func (c VariantCandidate) CandidateScore() float64 { return c.Score }
func (c DiseaseCandidate) CandidateScore() float64 { return c.Score }

// Ranked is a candidate with its competition rank (1-based).
type Ranked[T Scored] struct {
	Rank      int
	Candidate T
}

// Score returns the candidate's score.
func (r Ranked[T]) Score() float64 {
	return r.Candidate.CandidateScore()
}

type (
	RankedGene    = Ranked[GeneCandidate]
	RankedVariant = Ranked[VariantCandidate]
	RankedDisease = Ranked[DiseaseCandidate]
)
