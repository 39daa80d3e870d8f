package standardise

import "sort"

// Rank sorts candidates by score and assigns competition ranks: equal scores
// share the lower rank and the next distinct score skips ahead by the size of
// the tie group (scores 9, 9, 7 rank 1, 1, 3). Ties keep their input order.
// The input slice is not modified.
func Rank[T Scored](cands []T, order SortOrder) []Ranked[T] {
	if len(cands) == 0 {
		return nil
	}

	sorted := make([]T, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].CandidateScore(), sorted[j].CandidateScore()
		if order == Ascending {
			return si < sj
		}
		return si > sj
	})

	ranked := make([]Ranked[T], len(sorted))
	rank, run := 0, 0
	var previous float64
	for i, c := range sorted {
		run++
		if score := c.CandidateScore(); i == 0 || score != previous {
			rank += run
			run = 0
			previous = score
		}
		ranked[i] = Ranked[T]{Rank: rank, Candidate: c}
	}
	return ranked
}
