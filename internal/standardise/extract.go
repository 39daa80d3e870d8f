package standardise

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/inodb/vibe-pheval/internal/exomiser"
)

// groupingNamespace scopes grouping keys so they never collide with other
// version-5 UUIDs.
var groupingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/inodb/vibe-pheval/grouping"))

// ExtractGenes returns one candidate per gene result that carries field.
func ExtractGenes(res exomiser.Result, field ScoreField) []GeneCandidate {
	var out []GeneCandidate
	for i := range res {
		g := &res[i]
		score, ok := g.Score(string(field))
		if !ok {
			continue
		}
		out = append(out, GeneCandidate{
			GeneSymbol:     g.Symbol(),
			GeneIdentifier: g.Identifier(),
			Score:          Round(score),
		})
	}
	return out
}

// ExtractVariants returns one candidate per contributing variant of every
// gene score entry that carries field. Variants of one entry share its score.
func ExtractVariants(res exomiser.Result, field ScoreField) []VariantCandidate {
	var out []VariantCandidate
	for i := range res {
		g := &res[i]
		for j := range g.GeneScores {
			gs := &g.GeneScores[j]
			raw, ok := gs.Score(string(field))
			if !ok || len(gs.ContributingVariants) == 0 {
				continue
			}
			score := Round(raw)
			gene := gs.Symbol()
			if gene == "" {
				gene = g.Symbol()
			}
			for _, cv := range gs.ContributingVariants {
				v := VariantCandidate{
					Chromosome: cv.ContigName,
					Start:      cv.Start,
					End:        cv.End,
					Ref:        TrimAllele(cv.Ref),
					Alt:        TrimAllele(cv.Alt),
					GeneSymbol: gene,
					Score:      score,
				}
				if v.End == 0 {
					v.End = v.Start
				}
				v.GroupingKey = GroupingKey(gs.ModeOfInheritance, v)
				out = append(out, v)
			}
		}
	}
	return out
}

// ExtractDiseases returns one candidate per disease match of every gene result
// carrying field, scored with the gene's score. Repeated (disease, score)
// pairs are collapsed into the first position, keeping the last-seen name.
func ExtractDiseases(res exomiser.Result, field ScoreField) []DiseaseCandidate {
	type key struct {
		id    string
		score float64
	}
	index := make(map[key]int)
	var out []DiseaseCandidate
	for i := range res {
		g := &res[i]
		raw, ok := g.Score(string(field))
		if !ok {
			continue
		}
		score := Round(raw)
		for _, m := range g.DiseaseMatches() {
			if m.Model.DiseaseID == "" {
				continue
			}
			d := DiseaseCandidate{
				DiseaseIdentifier: m.Model.DiseaseID,
				DiseaseName:       m.Model.DiseaseName,
				Score:             score,
			}
			k := key{d.DiseaseIdentifier, d.Score}
			if at, seen := index[k]; seen {
				out[at] = d
				continue
			}
			index[k] = len(out)
			out = append(out, d)
		}
	}
	return out
}

// GroupingKey derives a stable identifier for a scored variant call.
// Recessive calls key on gene, inheritance mode and score so that both
// variants of a compound heterozygote share one key; other calls key on the
// exact locus and alleles.
func GroupingKey(moi string, v VariantCandidate) uuid.UUID {
	score := strconv.FormatFloat(v.Score, 'f', -1, 64)
	var name string
	if isRecessive(moi) {
		name = strings.Join([]string{v.GeneSymbol, moi, score}, "|")
	} else {
		name = strings.Join([]string{
			v.Chromosome,
			strconv.FormatInt(v.Start, 10),
			strconv.FormatInt(v.End, 10),
			v.Ref, v.Alt, moi, score,
		}, "|")
	}
	return uuid.NewSHA1(groupingNamespace, []byte(name))
}

func isRecessive(moi string) bool {
	return strings.HasSuffix(strings.ToUpper(moi), "RECESSIVE")
}

// TrimAllele strips the wrapping of symbolic alleles such as <DEL> or [INS].
// Breakend notation like G]17:198982] is left alone.
func TrimAllele(a string) string {
	a = strings.TrimSpace(a)
	if len(a) < 2 {
		return a
	}
	switch first, last := a[0], a[len(a)-1]; {
	case first == '<' && last == '>', first == '[' && last == ']':
		return a[1 : len(a)-1]
	}
	return a
}
