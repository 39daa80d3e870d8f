// Package standardise flattens Exomiser results into ranked gene, variant and
// disease candidates.
package standardise

import (
	"fmt"
	"math"
	"strings"

	"github.com/inodb/vibe-pheval/internal/exomiser"
)

// ScoreField names the score used to rank candidates.
type ScoreField string

// Known score fields.
const (
	CombinedScore  ScoreField = exomiser.FieldCombinedScore
	PriorityScore  ScoreField = exomiser.FieldPriorityScore
	PhenotypeScore ScoreField = exomiser.FieldPhenotypeScore
	VariantScore   ScoreField = exomiser.FieldVariantScore
	PValue         ScoreField = exomiser.FieldPValue
)

// ScoreFields lists every accepted score field.
var ScoreFields = []ScoreField{CombinedScore, PriorityScore, PhenotypeScore, VariantScore, PValue}

// ParseScoreField validates a score field name.
func ParseScoreField(s string) (ScoreField, error) {
	for _, f := range ScoreFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown score field %q (expected one of %s)", s, joinFields())
}

// DefaultOrder returns the natural sort order of the field: ascending for
// significance values, descending otherwise.
func (f ScoreField) DefaultOrder() SortOrder {
	if f == PValue {
		return Ascending
	}
	return Descending
}

func joinFields() string {
	names := make([]string, len(ScoreFields))
	for i, f := range ScoreFields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// SortOrder is the direction in which scores are ranked.
type SortOrder string

const (
	// Ascending ranks the smallest score first (p-values).
	Ascending SortOrder = "ascending"
	// Descending ranks the largest score first.
	Descending SortOrder = "descending"
)

// ParseSortOrder validates a sort order. An empty string yields the zero
// value so callers can fall back to ScoreField.DefaultOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort order %q (expected ascending or descending)", s)
}

// Precision is the number of decimal digits scores are rounded to.
const Precision = 4

var roundFactor = math.Pow(10, Precision)

// Round rounds a score to Precision decimal digits.
func Round(score float64) float64 {
	return math.Round(score*roundFactor) / roundFactor
}
