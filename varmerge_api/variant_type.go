package varmerge_api

import (
	"regexp"
	"strings"
)

// The type of a variant as derived from its REF and ALT alleles
type VariantType int

const (
	// Reference blocks and records without an alternate allele
	NoVariation VariantType = iota
	SNV
	MNV
	Indel
	// Symbolic (<DEL>, <DUP>, ...) and breakend alleles
	Symbolic
	// Multiple sequence types at the same site
	Mixed
)

var variantTypeNames = map[VariantType]string{
	NoVariation: "NO_VARIATION",
	SNV:         "SNV",
	MNV:         "MNV",
	Indel:       "INDEL",
	Symbolic:    "SV",
	Mixed:       "MIXED",
}

func (t VariantType) String() string {
	return variantTypeNames[t]
}

var (
	referenceRegex = regexp.MustCompile(`^[ACGTNacgtn]*$`)
	sequenceRegex  = regexp.MustCompile(`^[ACGTNacgtn]+$`)
	symbolicRegex  = regexp.MustCompile(`^<[^<>,]+>$`)
	breakendRegex  = regexp.MustCompile(`^([ACGTNacgtn]*[\[\]][^\[\],]+:[0-9]+[\[\]][ACGTNacgtn]*|\.[ACGTNacgtn]+|[ACGTNacgtn]+\.)$`)
)

// Gvcf style alleles standing for "any other allele"
var nonRefAlleles = []string{"<*>", "<NON_REF>", "<X>"}

func isNonRef(allele string) bool {
	for _, nonRef := range nonRefAlleles {
		if allele == nonRef {
			return true
		}
	}
	return false
}

// validateAllele checks that an ALT allele is a sequence, a spanning deletion, a symbolic allele or a breakend
func validateAllele(allele string) bool {
	return allele == "*" ||
		sequenceRegex.MatchString(allele) ||
		symbolicRegex.MatchString(allele) ||
		breakendRegex.MatchString(allele)
}

// validateReference checks a REF allele, an empty reference is allowed for normalized insertions
func validateReference(ref string) bool {
	return referenceRegex.MatchString(ref)
}

// alleleType classifies a single REF/ALT pair
func alleleType(ref string, alt string) VariantType {
	switch {
	case alt == "" || alt == "." || alt == "*" || isNonRef(alt):
		return NoVariation
	case symbolicRegex.MatchString(alt) || strings.ContainsAny(alt, "[]") || strings.HasPrefix(alt, ".") || strings.HasSuffix(alt, "."):
		return Symbolic
	case len(ref) != len(alt):
		return Indel
	case len(ref) == 1:
		return SNV
	}
	return MNV
}

// InferVariantType returns the type of a variant with the given alleles
func InferVariantType(ref string, alternates []string) VariantType {
	result := NoVariation
	for _, alt := range alternates {
		result = combineTypes(result, alleleType(ref, alt))
	}
	return result
}

// combineTypes returns the type of a site holding alleles of both types
func combineTypes(a VariantType, b VariantType) VariantType {
	switch {
	case a == b:
		return a
	case a == NoVariation:
		return b
	case b == NoVariation:
		return a
	case a == Symbolic || b == Symbolic:
		return Symbolic
	}
	return Mixed
}

// mergeableTypes reports whether records of these types can share an accumulator
func mergeableTypes(a VariantType, b VariantType) bool {
	if a == NoVariation || b == NoVariation || a == b {
		return true
	}
	return a != Symbolic && b != Symbolic
}
