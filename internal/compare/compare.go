// Package compare merges rank records of several benchmark runs into
// side-by-side comparison tables.
package compare

import (
	"strconv"

	"github.com/inodb/vibe-pheval/internal/assess"
)

// PairSeparator joins two source labels in a comparison name.
const PairSeparator = "__v__"

// Source is the rank records of one labelled run.
type Source struct {
	Label   string
	Records []assess.MatchResult
}

// ChangeKind classifies the rank movement between two runs.
type ChangeKind int

const (
	// ChangeUndefined means the key is absent from one of the runs.
	ChangeUndefined ChangeKind = iota
	// ChangeDelta means both runs have a rank; Delta holds rankB - rankA.
	ChangeDelta
	// ChangeGained means only the second run found the entity.
	ChangeGained
	// ChangeLost means only the first run found the entity.
	ChangeLost
)

// Change is the rank movement from run A to run B.
type Change struct {
	Kind  ChangeKind
	Delta int
}

// String renders the change for tabular output; undefined is empty.
func (c Change) String() string {
	switch c.Kind {
	case ChangeDelta:
		return strconv.Itoa(c.Delta)
	case ChangeGained:
		return "GAINED"
	case ChangeLost:
		return "LOST"
	}
	return ""
}

// Row is one merged sample+entity. A nil rank means the run has no record
// for the key; a zero rank means the run did not find the entity.
type Row struct {
	Key      string
	SampleID string
	Entity   string
	RankA    *int
	RankB    *int
	Change   Change
}

// Table is the merge of two sources.
type Table struct {
	Name   string
	LabelA string
	LabelB string
	Rows   []Row
}

// PairName returns the artefact name of a comparison between a and b.
func PairName(a, b string) string {
	return a + PairSeparator + b
}

// Pairwise merges two sources on the union of their keys. Rows follow the
// order of a, followed by keys only present in b.
func Pairwise(a, b Source) *Table {
	t := &Table{Name: PairName(a.Label, b.Label), LabelA: a.Label, LabelB: b.Label}
	index := make(map[string]int)

	for _, m := range a.Records {
		k := m.Key()
		if _, seen := index[k]; seen {
			continue
		}
		rank := m.Rank
		index[k] = len(t.Rows)
		t.Rows = append(t.Rows, Row{Key: k, SampleID: m.SampleID, Entity: m.Entity, RankA: &rank})
	}

	seenB := make(map[string]bool)
	for _, m := range b.Records {
		k := m.Key()
		if seenB[k] {
			continue
		}
		seenB[k] = true
		rank := m.Rank
		if at, ok := index[k]; ok {
			t.Rows[at].RankB = &rank
			continue
		}
		index[k] = len(t.Rows)
		t.Rows = append(t.Rows, Row{Key: k, SampleID: m.SampleID, Entity: m.Entity, RankB: &rank})
	}

	for i := range t.Rows {
		t.Rows[i].Change = change(t.Rows[i].RankA, t.Rows[i].RankB)
	}
	return t
}

func change(a, b *int) Change {
	if a == nil || b == nil {
		return Change{Kind: ChangeUndefined}
	}
	foundA, foundB := *a != assess.NotFound, *b != assess.NotFound
	switch {
	case foundA && !foundB:
		return Change{Kind: ChangeLost}
	case !foundA && foundB:
		return Change{Kind: ChangeGained}
	}
	return Change{Kind: ChangeDelta, Delta: *b - *a}
}

// AllPairs merges every unordered pair of sources, in input order.
func AllPairs(sources ...Source) []*Table {
	var tables []*Table
	for i := 0; i < len(sources); i++ {
		for j := i + 1; j < len(sources); j++ {
			tables = append(tables, Pairwise(sources[i], sources[j]))
		}
	}
	return tables
}
