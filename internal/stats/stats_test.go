package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibe-pheval/internal/assess"
	"github.com/inodb/vibe-pheval/internal/standardise"
)

func match(entity string, rank int) assess.MatchResult {
	return assess.MatchResult{SampleID: "s1", Kind: standardise.KindGene, Entity: entity, Rank: rank}
}

func TestAddRank(t *testing.T) {
	var s RankStats
	for _, r := range []int{1, 2, 4, 7, 11} {
		s.Total++
		s.AddRank(r)
	}
	s.Total++ // one unmatched entity

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 1, s.Top1)
	assert.Equal(t, 2, s.Top3)
	assert.Equal(t, 3, s.Top5)
	assert.Equal(t, 4, s.Top10)
	assert.Equal(t, 5, s.Found)
	assert.InDelta(t, (1+0.5+0.25+1.0/7+1.0/11)/5, s.MRR(), 1e-12)
}

func TestPercent_ZeroTotal(t *testing.T) {
	var s RankStats
	row := s.Summary("empty")
	assert.Equal(t, 0.0, row.Top1Pct)
	assert.Equal(t, 0.0, row.FoundPct)
	assert.Equal(t, 0.0, row.MRR)
	assert.Equal(t, "empty", row.Label)
}

func TestAggregator_TotalInvariant(t *testing.T) {
	a := NewAggregator()
	a.RecordAll([]assess.MatchResult{match("A", 1), match("B", assess.NotFound), match("C", 3)})

	row := a.Finalize("dir1")
	assert.Equal(t, 3, row.Total)
	assert.Equal(t, 2, row.Found)
	assert.InDelta(t, 66.6667, row.FoundPct, 1e-3)
	assert.InDelta(t, 33.3333, row.Top1Pct, 1e-3)
	assert.Equal(t, 2, row.Top3)
	assert.Len(t, a.Records(), 3)
}

func TestAggregator_SingleTop1(t *testing.T) {
	a := NewAggregator()
	a.Record(match("FGFR2", 1))

	row := a.Finalize("dir1")
	assert.Equal(t, SummaryRow{
		Label: "dir1", Total: 1,
		Top1: 1, Top1Pct: 100, Top3: 1, Top3Pct: 100,
		Top5: 1, Top5Pct: 100, Top10: 1, Top10Pct: 100,
		Found: 1, FoundPct: 100, MRR: 1,
	}, row)
}
