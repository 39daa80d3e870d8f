package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-pheval/internal/assess"
	"github.com/inodb/vibe-pheval/internal/standardise"
)

func rec(sample, entity string, rank int) assess.MatchResult {
	return assess.MatchResult{SampleID: sample, Kind: standardise.KindGene, Entity: entity, Rank: rank}
}

func rankOf(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestPairwise_Union(t *testing.T) {
	a := Source{Label: "run_a", Records: []assess.MatchResult{
		rec("X", "FGFR2", 3),
		rec("Y", "BRCA1", 1),
	}}
	b := Source{Label: "run_b", Records: []assess.MatchResult{
		rec("Y", "BRCA1", 2),
		rec("Z", "TP53", 5),
	}}

	tbl := Pairwise(a, b)
	assert.Equal(t, "run_a__v__run_b", tbl.Name)
	require.Len(t, tbl.Rows, 3)

	x := tbl.Rows[0]
	assert.Equal(t, "X", x.SampleID)
	assert.Equal(t, 3, rankOf(x.RankA))
	assert.Nil(t, x.RankB, "absent side is null, not zero")
	assert.Equal(t, ChangeUndefined, x.Change.Kind)
	assert.Equal(t, "", x.Change.String())

	y := tbl.Rows[1]
	assert.Equal(t, 1, rankOf(y.RankA))
	assert.Equal(t, 2, rankOf(y.RankB))
	assert.Equal(t, Change{Kind: ChangeDelta, Delta: 1}, y.Change)

	z := tbl.Rows[2]
	assert.Nil(t, z.RankA)
	assert.Equal(t, 5, rankOf(z.RankB))
}

func TestPairwise_GainedLost(t *testing.T) {
	a := Source{Label: "a", Records: []assess.MatchResult{
		rec("s1", "G1", assess.NotFound),
		rec("s1", "G2", 4),
		rec("s1", "G3", assess.NotFound),
		rec("s1", "G4", 6),
	}}
	b := Source{Label: "b", Records: []assess.MatchResult{
		rec("s1", "G1", 2),
		rec("s1", "G2", assess.NotFound),
		rec("s1", "G3", assess.NotFound),
		rec("s1", "G4", 1),
	}}

	tbl := Pairwise(a, b)
	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, "GAINED", tbl.Rows[0].Change.String())
	assert.Equal(t, "LOST", tbl.Rows[1].Change.String())
	assert.Equal(t, "0", tbl.Rows[2].Change.String())
	assert.Equal(t, "-5", tbl.Rows[3].Change.String())
	assert.Equal(t, 0, rankOf(tbl.Rows[1].RankB), "not found is present with rank 0")
}

func TestPairwise_DuplicateKeysKeepFirst(t *testing.T) {
	a := Source{Label: "a", Records: []assess.MatchResult{rec("s1", "G1", 1), rec("s1", "G1", 9)}}
	tbl := Pairwise(a, Source{Label: "b"})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, 1, rankOf(tbl.Rows[0].RankA))
}

func TestAllPairs(t *testing.T) {
	sources := []Source{{Label: "a"}, {Label: "b"}, {Label: "c"}, {Label: "d"}}

	tables := AllPairs(sources...)
	var names []string
	for _, tbl := range tables {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{
		"a__v__b", "a__v__c", "a__v__d",
		"b__v__c", "b__v__d",
		"c__v__d",
	}, names)

	assert.Empty(t, AllPairs(sources[:1]...))
}
