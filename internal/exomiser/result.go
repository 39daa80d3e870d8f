// Package exomiser decodes Exomiser JSON results and exposes typed accessors
// over their nested structure.
package exomiser

import (
	"bytes"
	"sort"

	"github.com/goccy/go-json"
)

// Score field names emitted by Exomiser.
const (
	FieldCombinedScore  = "combinedScore"
	FieldPriorityScore  = "priorityScore"
	FieldPhenotypeScore = "phenotypeScore"
	FieldVariantScore   = "variantScore"
	FieldPValue         = "pValue"
)

// Result is a single sample's Exomiser output: one entry per gene.
type Result []GeneResult

// GeneIdentifier identifies a gene across naming systems.
type GeneIdentifier struct {
	GeneID     string `json:"geneId"`
	GeneSymbol string `json:"geneSymbol"`
	HGNCID     string `json:"hgncId"`
	EntrezID   string `json:"entrezId"`
}

// GeneResult is a top-level gene entry.
type GeneResult struct {
	GeneSymbol      string                    `json:"geneSymbol"`
	GeneIdentifier  GeneIdentifier            `json:"geneIdentifier"`
	GeneScores      []GeneScore               `json:"geneScores"`
	PriorityResults map[string]PriorityResult `json:"priorityResults"`

	scores scores
}

// GeneScore is a per mode-of-inheritance score for a gene.
type GeneScore struct {
	GeneIdentifier       GeneIdentifier        `json:"geneIdentifier"`
	ModeOfInheritance    string                `json:"modeOfInheritance"`
	ContributingVariants []ContributingVariant `json:"contributingVariants"`

	scores scores
}

// ContributingVariant is a variant supporting a GeneScore.
type ContributingVariant struct {
	ContigName string `json:"contigName"`
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
	Ref        string `json:"ref"`
	Alt        string `json:"alt"`
}

// PriorityResult is the output of one prioritiser (e.g. HIPHIVE_PRIORITY).
type PriorityResult struct {
	DiseaseMatches []DiseaseMatch `json:"diseaseMatches"`
}

// DiseaseMatch links a gene to a disease model.
type DiseaseMatch struct {
	Model DiseaseModel `json:"model"`
	Score float64      `json:"score"`
}

// DiseaseModel describes a disease.
type DiseaseModel struct {
	DiseaseID   string `json:"diseaseId"`
	DiseaseName string `json:"diseaseName"`
}

// scores holds every numeric field found on a JSON object, keyed by name.
type scores map[string]float64

func (s scores) get(field string) (float64, bool) {
	v, ok := s[field]
	return v, ok
}

// Score returns the named score field and whether it was present.
func (g *GeneResult) Score(field string) (float64, bool) {
	return g.scores.get(field)
}

// Symbol returns the gene symbol, falling back to the identifier block.
func (g *GeneResult) Symbol() string {
	if g.GeneSymbol != "" {
		return g.GeneSymbol
	}
	return g.GeneIdentifier.GeneSymbol
}

// Identifier returns the gene identifier (e.g. ENSG00000066468).
func (g *GeneResult) Identifier() string {
	return g.GeneIdentifier.GeneID
}

// DiseaseMatches returns the disease matches of every prioritiser, in
// prioritiser-name order.
func (g *GeneResult) DiseaseMatches() []DiseaseMatch {
	if len(g.PriorityResults) == 0 {
		return nil
	}
	names := make([]string, 0, len(g.PriorityResults))
	for name := range g.PriorityResults {
		names = append(names, name)
	}
	sort.Strings(names)

	var matches []DiseaseMatch
	for _, name := range names {
		matches = append(matches, g.PriorityResults[name].DiseaseMatches...)
	}
	return matches
}

// Score returns the named score field and whether it was present.
func (s *GeneScore) Score(field string) (float64, bool) {
	return s.scores.get(field)
}

// Symbol returns the gene symbol of this score entry.
func (s *GeneScore) Symbol() string {
	return s.GeneIdentifier.GeneSymbol
}

// UnmarshalJSON decodes the known fields and records every numeric field.
func (g *GeneResult) UnmarshalJSON(data []byte) error {
	type plain GeneResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	sc, err := numericFields(data)
	if err != nil {
		return err
	}
	*g = GeneResult(p)
	g.scores = sc
	return nil
}

// UnmarshalJSON decodes the known fields and records every numeric field.
func (s *GeneScore) UnmarshalJSON(data []byte) error {
	type plain GeneScore
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	sc, err := numericFields(data)
	if err != nil {
		return err
	}
	*s = GeneScore(p)
	s.scores = sc
	return nil
}

var jsonNull = []byte("null")

func numericFields(data []byte) (scores, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	sc := make(scores)
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, jsonNull) {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			sc[k] = f
		}
	}
	return sc, nil
}
