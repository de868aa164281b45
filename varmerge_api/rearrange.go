package varmerge_api

import (
	"strings"

	"github.com/pkg/errors"
)

// AlleleIndexMapping maps the allele indices of an original allele list onto a target list.
// Index 0 is the reference and always maps to 0.
type AlleleIndexMapping struct {
	original []string
	target   []string
	// toTarget[i] is the target index of original allele i, MissingAllele when absent
	toTarget []int
}

// ComputeMapping finds every original alternate in the target alternates by value
func ComputeMapping(original []string, target []string) *AlleleIndexMapping {
	positions := make(map[string]int, len(target))
	for i, alt := range target {
		if _, ok := positions[alt]; !ok {
			positions[alt] = i + 1
		}
	}

	toTarget := make([]int, len(original)+1)
	for i, alt := range original {
		if position, ok := positions[alt]; ok {
			toTarget[i+1] = position
		} else {
			toTarget[i+1] = MissingAllele
		}
	}

	return &AlleleIndexMapping{
		original: original,
		target:   target,
		toTarget: toTarget,
	}
}

// Map returns the target index of an original allele index
func (m *AlleleIndexMapping) Map(allele int) int {
	if allele < 0 || allele >= len(m.toTarget) {
		return MissingAllele
	}
	return m.toTarget[allele]
}

// Returns true when the mapping doesn't change any index and the allele count stays the same
func (m *AlleleIndexMapping) IsIdentity() bool {
	if len(m.original) != len(m.target) {
		return false
	}
	for i, target := range m.toTarget {
		if i != target {
			return false
		}
	}
	return true
}

// The number of alleles (reference included) before and after the mapping
func (m *AlleleIndexMapping) OriginalAlleles() int { return len(m.original) + 1 }
func (m *AlleleIndexMapping) TargetAlleles() int   { return len(m.target) + 1 }

// AlternateRearranger rewrites allele dependent values from the original alternate order to the target order.
// It has no mutable state and can be shared between goroutines.
type AlternateRearranger struct {
	mapping *AlleleIndexMapping
	missing string
}

// NewAlternateRearranger creates a rearranger that uses "." for values without a source
func NewAlternateRearranger(original []string, target []string) *AlternateRearranger {
	return &AlternateRearranger{
		mapping: ComputeMapping(original, target),
		missing: defaultMissing,
	}
}

// WithMissing returns a copy of the rearranger that uses another missing placeholder
func (r *AlternateRearranger) WithMissing(missing string) *AlternateRearranger {
	return &AlternateRearranger{mapping: r.mapping, missing: missing}
}

func (r *AlternateRearranger) Mapping() *AlleleIndexMapping {
	return r.mapping
}

// RearrangeNumberA rearranges a value with one entry per alternate allele.
// Target alternates without a source entry get the missing placeholder, entries of dropped alternates are lost.
func (r *AlternateRearranger) RearrangeNumberA(value string) string {
	return r.rearrangeAlleles(value, 1)
}

// RearrangeNumberR rearranges a value with one entry per allele, the reference entry stays first
func (r *AlternateRearranger) RearrangeNumberR(value string) string {
	return r.rearrangeAlleles(value, 0)
}

// rearrangeAlleles places every value at its mapped allele, first is the allele index of the first value
func (r *AlternateRearranger) rearrangeAlleles(value string, first int) string {
	values := strings.Split(value, ",")
	result := make([]string, r.mapping.TargetAlleles()-first)
	for i := range result {
		result[i] = r.missing
	}
	for i, v := range values {
		target := r.mapping.Map(i + first)
		if target == MissingAllele {
			continue
		}
		result[target-first] = v
	}
	return strings.Join(result, ",")
}

// RearrangeNumberG rearranges a value with one entry per possible genotype of the ploidy.
// Genotypes that can't be expressed with the target alleles are dropped, new genotypes get missing.
func (r *AlternateRearranger) RearrangeNumberG(value string, missing string, ploidy int) (string, error) {
	if value == "" || value == "." {
		return value, nil
	}
	if ploidy < 1 {
		return "", errors.Wrapf(ErrPloidyMismatch, "invalid ploidy %d", ploidy)
	}

	values := strings.Split(value, ",")
	originalOrder := GenotypeOrder(r.mapping.OriginalAlleles(), ploidy)
	if len(values) != len(originalOrder) {
		return "", errors.Wrapf(
			ErrPloidyMismatch,
			"expected %d values for ploidy %d and %d alleles, found %d",
			len(originalOrder), ploidy, r.mapping.OriginalAlleles(), len(values),
		)
	}

	result := make([]string, GenotypeCount(r.mapping.TargetAlleles(), ploidy))
	for i := range result {
		result[i] = missing
	}
	mapped := make([]int, ploidy)
	for i, genotype := range originalOrder {
		complete := true
		for j, allele := range genotype {
			mapped[j] = r.mapping.Map(allele)
			if mapped[j] == MissingAllele {
				complete = false
				break
			}
		}
		if complete {
			result[GenotypeIndex(mapped)] = values[i]
		}
	}
	return strings.Join(result, ","), nil
}

// RearrangeGenotype maps every allele of the call, alleles missing in the target become no-calls.
// The alleles keep the order of the call, phased or not.
func (r *AlternateRearranger) RearrangeGenotype(gt Genotype) Genotype {
	result := Genotype{Alleles: make([]int, len(gt.Alleles)), Phased: gt.Phased}
	for i, allele := range gt.Alleles {
		if allele == MissingAllele {
			result.Alleles[i] = MissingAllele
			continue
		}
		result.Alleles[i] = r.mapping.Map(allele)
	}
	return result
}

// Rearrange rearranges a FORMAT value according to its Number, fields that don't depend on the alleles are returned as is
func (r *AlternateRearranger) Rearrange(number Number, value string, ploidy int) (string, error) {
	switch number.Kind {
	case NumberA:
		return r.RearrangeNumberA(value), nil
	case NumberR:
		return r.RearrangeNumberR(value), nil
	case NumberG:
		return r.RearrangeNumberG(value, r.missing, ploidy)
	}
	return value, nil
}
