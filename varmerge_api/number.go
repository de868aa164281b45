package varmerge_api

import (
	"strconv"

	"github.com/pkg/errors"
)

// The kind of value count a FORMAT field declares in its Number attribute
type NumberKind int

const (
	// "." = the number varies, is unknown or is unbounded
	NumberUnbounded NumberKind = iota
	// A fixed count, like "1" or "2"
	NumberFixed
	// A = one value per alternate allele
	NumberA
	// R = one value per possible allele (reference included)
	NumberR
	// G = one value per possible genotype
	NumberG
)

// The parsed Number attribute of a FORMAT header line
type Number struct {
	Kind  NumberKind
	Count int
}

// ParseNumber converts the textual Number of a header line
func ParseNumber(input string) (Number, error) {
	switch input {
	case "A":
		return Number{Kind: NumberA}, nil
	case "R":
		return Number{Kind: NumberR}, nil
	case "G":
		return Number{Kind: NumberG}, nil
	case ".", "":
		return Number{Kind: NumberUnbounded}, nil
	}
	count, err := strconv.Atoi(input)
	if err != nil || count < 0 {
		return Number{}, errors.Errorf("invalid Number '%s'", input)
	}
	return Number{Kind: NumberFixed, Count: count}, nil
}

func (n Number) String() string {
	switch n.Kind {
	case NumberA:
		return "A"
	case NumberR:
		return "R"
	case NumberG:
		return "G"
	case NumberFixed:
		return strconv.Itoa(n.Count)
	}
	return "."
}

// Returns true when the values of the field follow the allele order of the variant
func (n Number) AlleleDependent() bool {
	return n.Kind == NumberA || n.Kind == NumberR || n.Kind == NumberG
}
