// Package stats accumulates matched ranks into benchmark summary statistics.
package stats

import (
	"github.com/inodb/vibe-pheval/internal/assess"
)

// RankStats counts how often ground-truth entities were found at or above
// given ranks. It is not safe for concurrent use.
type RankStats struct {
	Total int
	Top1  int
	Top3  int
	Top5  int
	Top10 int
	Found int

	reciprocalSum float64
}

// AddRank records a matched rank. Total is counted separately so that
// unmatched entities still contribute to it.
func (s *RankStats) AddRank(rank int) {
	if rank <= 0 {
		return
	}
	s.Found++
	if rank == 1 {
		s.Top1++
	}
	if rank <= 3 {
		s.Top3++
	}
	if rank <= 5 {
		s.Top5++
	}
	if rank <= 10 {
		s.Top10++
	}
	s.reciprocalSum += 1 / float64(rank)
}

// MRR returns the mean reciprocal rank over matched entities.
func (s *RankStats) MRR() float64 {
	if s.Found == 0 {
		return 0
	}
	return s.reciprocalSum / float64(s.Found)
}

// Percent returns count as a percentage of Total, or 0 when Total is 0.
func (s *RankStats) Percent(count int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(count) / float64(s.Total) * 100
}

// SummaryRow is the finalised statistics of one results directory.
type SummaryRow struct {
	Label    string
	Total    int
	Top1     int
	Top1Pct  float64
	Top3     int
	Top3Pct  float64
	Top5     int
	Top5Pct  float64
	Top10    int
	Top10Pct float64
	Found    int
	FoundPct float64
	MRR      float64
}

// Summary returns the statistics as a SummaryRow.
func (s *RankStats) Summary(label string) SummaryRow {
	return SummaryRow{
		Label:    label,
		Total:    s.Total,
		Top1:     s.Top1,
		Top1Pct:  s.Percent(s.Top1),
		Top3:     s.Top3,
		Top3Pct:  s.Percent(s.Top3),
		Top5:     s.Top5,
		Top5Pct:  s.Percent(s.Top5),
		Top10:    s.Top10,
		Top10Pct: s.Percent(s.Top10),
		Found:    s.Found,
		FoundPct: s.Percent(s.Found),
		MRR:      s.MRR(),
	}
}

// Aggregator owns the statistics and rank records of one (directory, kind)
// pair.
type Aggregator struct {
	stats   RankStats
	records []assess.MatchResult
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record counts a match result exactly once.
func (a *Aggregator) Record(m assess.MatchResult) {
	a.stats.Total++
	if m.Found() {
		a.stats.AddRank(m.Rank)
	}
	a.records = append(a.records, m)
}

// RecordAll records every result in ms.
func (a *Aggregator) RecordAll(ms []assess.MatchResult) {
	for _, m := range ms {
		a.Record(m)
	}
}

// Stats returns a copy of the current statistics.
func (a *Aggregator) Stats() RankStats {
	return a.stats
}

// Records returns the recorded match results in recording order.
func (a *Aggregator) Records() []assess.MatchResult {
	return a.records
}

// Finalize returns the summary row for the directory.
func (a *Aggregator) Finalize(label string) SummaryRow {
	return a.stats.Summary(label)
}
