package standardise

import (
	"fmt"
	"strings"
)

// Kind is an entity kind that can be prioritised.
type Kind string

const (
	KindGene    Kind = "gene"
	KindVariant Kind = "variant"
	KindDisease Kind = "disease"
)

// AllKinds lists every kind in output order.
var AllKinds = []Kind{KindGene, KindVariant, KindDisease}

// Kinds is a set of requested entity kinds.
type Kinds map[Kind]bool

// Has reports whether k is requested.
func (ks Kinds) Has(k Kind) bool {
	return ks[k]
}

// List returns the requested kinds in output order.
func (ks Kinds) List() []Kind {
	var out []Kind
	for _, k := range AllKinds {
		if ks[k] {
			out = append(out, k)
		}
	}
	return out
}

// Without returns a copy of ks with k removed.
func (ks Kinds) Without(k Kind) Kinds {
	out := make(Kinds, len(ks))
	for kk, v := range ks {
		if kk != k {
			out[kk] = v
		}
	}
	return out
}

// ParseKinds parses names such as ["gene", "variant"]. Entries may also be
// comma-separated. An empty list selects every kind.
func ParseKinds(names []string) (Kinds, error) {
	ks := make(Kinds)
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			switch Kind(part) {
			case KindGene, KindVariant, KindDisease:
				ks[Kind(part)] = true
			default:
				return nil, fmt.Errorf("unknown entity kind %q (expected gene, variant or disease)", part)
			}
		}
	}
	if len(ks) == 0 {
		for _, k := range AllKinds {
			ks[k] = true
		}
	}
	return ks, nil
}
