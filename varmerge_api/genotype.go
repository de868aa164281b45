package varmerge_api

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The allele index used for no-calls and for alleles without a counterpart in a mapping
const MissingAllele = -1

// A genotype call as found in the GT field of a sample
type Genotype struct {
	// The allele indices of the call, one per copy (0 = reference)
	// MissingAllele marks a no-call
	Alleles []int

	// True when the alleles are separated by '|'
	Phased bool
}

// ParseGenotype parses a GT value like "0/1", "1|0", "./." or "1"
func ParseGenotype(input string) (Genotype, error) {
	if input == "" {
		return Genotype{}, errors.Wrap(ErrMalformedGenotype, "empty genotype")
	}
	phased := strings.Contains(input, "|") && !strings.Contains(input, "/")
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == '/' || r == '|' })
	if len(fields) == 0 || strings.Count(input, "/")+strings.Count(input, "|") != len(fields)-1 {
		return Genotype{}, errors.Wrapf(ErrMalformedGenotype, "'%s'", input)
	}

	gt := Genotype{Alleles: make([]int, len(fields)), Phased: phased}
	for i, field := range fields {
		if field == "." {
			gt.Alleles[i] = MissingAllele
			continue
		}
		allele, err := strconv.Atoi(field)
		if err != nil || allele < 0 {
			return Genotype{}, errors.Wrapf(ErrMalformedGenotype, "'%s'", input)
		}
		gt.Alleles[i] = allele
	}
	return gt, nil
}

// NoCall returns a missing genotype of the given ploidy
func NoCall(ploidy int) Genotype {
	if ploidy < 1 {
		ploidy = 1
	}
	alleles := make([]int, ploidy)
	for i := range alleles {
		alleles[i] = MissingAllele
	}
	return Genotype{Alleles: alleles}
}

func (gt Genotype) Ploidy() int {
	return len(gt.Alleles)
}

// Returns true when every allele of the call is missing
func (gt Genotype) IsNoCall() bool {
	for _, allele := range gt.Alleles {
		if allele != MissingAllele {
			return false
		}
	}
	return true
}

// The highest allele index used by the call, MissingAllele for no-calls
func (gt Genotype) MaxAllele() int {
	max := MissingAllele
	for _, allele := range gt.Alleles {
		if allele > max {
			max = allele
		}
	}
	return max
}

func (gt Genotype) String() string {
	if len(gt.Alleles) == 0 {
		return "."
	}
	separator := "/"
	if gt.Phased {
		separator = "|"
	}
	alleles := make([]string, len(gt.Alleles))
	for i, allele := range gt.Alleles {
		if allele == MissingAllele {
			alleles[i] = "."
		} else {
			alleles[i] = strconv.Itoa(allele)
		}
	}
	return strings.Join(alleles, separator)
}

//
// Canonical genotype ordering
//

// GenotypeCount is the number of unordered genotypes of the given ploidy over a number of alleles
// (reference included): C(alleles+ploidy-1, ploidy)
func GenotypeCount(alleles int, ploidy int) int {
	if alleles < 1 || ploidy < 1 {
		return 0
	}
	return binomial(alleles+ploidy-1, ploidy)
}

// GenotypeOrder enumerates the unordered genotypes in the order used by GL and PL fields.
// Each genotype is sorted ascending, the last allele varies slowest:
// 0/0, 0/1, 1/1, 0/2, 1/2, 2/2, ...
func GenotypeOrder(alleles int, ploidy int) [][]int {
	order := make([][]int, 0, GenotypeCount(alleles, ploidy))
	if alleles < 1 || ploidy < 1 {
		return order
	}
	tuple := make([]int, ploidy)
	var fill func(position int, max int)
	fill = func(position int, max int) {
		if position < 0 {
			order = append(order, append([]int(nil), tuple...))
			return
		}
		for allele := 0; allele <= max; allele++ {
			tuple[position] = allele
			fill(position-1, allele)
		}
	}
	fill(ploidy-1, alleles-1)
	return order
}

// GenotypeIndex returns the position of a genotype in GenotypeOrder.
// The alleles don't have to be sorted. With k1 <= ... <= kP the index is sum(C(km+m-1, m)).
func GenotypeIndex(alleles []int) int {
	sorted := append([]int(nil), alleles...)
	sort.Ints(sorted)
	index := 0
	for m, k := range sorted {
		index += binomial(k+m, m+1)
	}
	return index
}

func binomial(n int, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
