package varmerge_api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMapping(t *testing.T) {
	mapping := ComputeMapping([]string{"A", "B", "C"}, []string{"C", "A", "B"})
	assert.Equal(t, 0, mapping.Map(0))
	assert.Equal(t, 2, mapping.Map(1))
	assert.Equal(t, 3, mapping.Map(2))
	assert.Equal(t, 1, mapping.Map(3))
	assert.Equal(t, MissingAllele, mapping.Map(4))
	assert.Equal(t, MissingAllele, mapping.Map(MissingAllele))
	assert.False(t, mapping.IsIdentity())

	dropped := ComputeMapping([]string{"A", "B"}, []string{"B"})
	assert.Equal(t, 0, dropped.Map(0))
	assert.Equal(t, MissingAllele, dropped.Map(1))
	assert.Equal(t, 1, dropped.Map(2))

	assert.True(t, ComputeMapping([]string{"A", "B"}, []string{"A", "B"}).IsIdentity())
	assert.False(t, ComputeMapping([]string{"A"}, []string{"A", "B"}).IsIdentity())
}

func TestReferenceAlwaysMapsToReference(t *testing.T) {
	lists := [][]string{{}, {"A"}, {"A", "T"}, {"T", "A", "<DEL>"}}
	for _, original := range lists {
		for _, target := range lists {
			assert.Equal(t, 0, ComputeMapping(original, target).Map(0))
		}
	}
}

func TestRearrangeNumberA(t *testing.T) {
	rearranger := NewAlternateRearranger([]string{"A", "B", "C"}, []string{"C", "A", "B"})
	assert.Equal(t, ".,A,.", rearranger.RearrangeNumberA("A"))
	assert.Equal(t, "3,1,2", rearranger.RearrangeNumberA("1,2,3"))

	tests := []struct {
		name     string
		original []string
		target   []string
		value    string
		expected string
	}{
		{"new alternate", []string{"A"}, []string{"A", "G"}, "0.5", "0.5,."},
		{"dropped alternate", []string{"A", "G"}, []string{"G"}, "0.1,0.9", "0.9"},
		{"identity", []string{"A", "G"}, []string{"A", "G"}, "0.1,0.9", "0.1,0.9"},
		{"surplus values", []string{"A"}, []string{"A"}, "1,2", "1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, NewAlternateRearranger(test.original, test.target).RearrangeNumberA(test.value))
		})
	}
}

func TestRearrangeNumberR(t *testing.T) {
	rearranger := NewAlternateRearranger([]string{"A", "B", "C"}, []string{"C", "A", "B"})
	assert.Equal(t, "10,3,1,2", rearranger.RearrangeNumberR("10,1,2,3"))
	assert.Equal(t, "10,.,1,.", rearranger.RearrangeNumberR("10,1"))

	grow := NewAlternateRearranger([]string{"A"}, []string{"A", "G"})
	assert.Equal(t, "10,5,.", grow.RearrangeNumberR("10,5"))

	missing := NewAlternateRearranger([]string{"A"}, []string{"G", "A"}).WithMissing("0")
	assert.Equal(t, "10,0,5", missing.RearrangeNumberR("10,5"))
}

func TestRearrangeRoundTrip(t *testing.T) {
	original := []string{"A", "C", "G", "<DEL>"}
	permutations := [][]string{
		{"A", "C", "G", "<DEL>"},
		{"<DEL>", "G", "C", "A"},
		{"C", "A", "<DEL>", "G"},
		{"G", "<DEL>", "A", "C"},
	}
	value := "1,2,3,4"
	valueR := "0,1,2,3,4"
	for _, target := range permutations {
		forward := NewAlternateRearranger(original, target)
		backward := NewAlternateRearranger(target, original)
		assert.Equal(t, value, backward.RearrangeNumberA(forward.RearrangeNumberA(value)), target)
		assert.Equal(t, valueR, backward.RearrangeNumberR(forward.RearrangeNumberR(valueR)), target)

		valuesG := make([]string, GenotypeCount(len(original)+1, 2))
		for i := range valuesG {
			valuesG[i] = strings.Repeat("x", i+1)
		}
		valueG := strings.Join(valuesG, ",")
		rearranged, err := forward.RearrangeNumberG(valueG, ".", 2)
		require.NoError(t, err)
		restored, err := backward.RearrangeNumberG(rearranged, ".", 2)
		require.NoError(t, err)
		assert.Equal(t, valueG, restored, target)
	}
}

func TestRearrangeNumberG(t *testing.T) {
	tests := []struct {
		name     string
		original []string
		target   []string
		value    string
		ploidy   int
		expected string
	}{
		{"diploid new alternate first", []string{"A"}, []string{"G", "A"}, "10,20,30", 2, "10,.,.,20,.,30"},
		{"diploid new alternate last", []string{"A"}, []string{"A", "G"}, "10,20,30", 2, "10,20,30,.,.,."},
		{"diploid dropped alternate", []string{"A", "B"}, []string{"B"}, "0,1,2,3,4,5", 2, "0,3,5"},
		{"diploid swap", []string{"A", "B"}, []string{"B", "A"}, "0,1,2,3,4,5", 2, "0,3,5,1,4,2"},
		{"haploid swap", []string{"A", "B"}, []string{"B", "A"}, "a,b,c", 1, "a,c,b"},
		{"missing value", []string{"A"}, []string{"A", "G"}, ".", 2, "."},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := NewAlternateRearranger(test.original, test.target).RearrangeNumberG(test.value, ".", test.ploidy)
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}
}

func TestRearrangeNumberGLength(t *testing.T) {
	original := []string{"A"}
	for _, target := range [][]string{{"A"}, {"A", "C"}, {"C", "G", "A"}, {"T"}} {
		for ploidy := 1; ploidy <= 4; ploidy++ {
			values := make([]string, GenotypeCount(len(original)+1, ploidy))
			for i := range values {
				values[i] = "1"
			}
			result, err := NewAlternateRearranger(original, target).RearrangeNumberG(strings.Join(values, ","), ".", ploidy)
			require.NoError(t, err)
			assert.Len(t, strings.Split(result, ","), GenotypeCount(len(target)+1, ploidy))
		}
	}
}

func TestRearrangeNumberGPloidyMismatch(t *testing.T) {
	rearranger := NewAlternateRearranger([]string{"A"}, []string{"A", "G"})

	_, err := rearranger.RearrangeNumberG("1,2", ".", 2)
	assert.ErrorIs(t, err, ErrPloidyMismatch)

	// a diploid PL given for a haploid sample
	_, err = rearranger.RearrangeNumberG("0,10,100", ".", 1)
	assert.ErrorIs(t, err, ErrPloidyMismatch)

	_, err = rearranger.RearrangeNumberG("0,10,100", ".", 0)
	assert.ErrorIs(t, err, ErrPloidyMismatch)
}

func TestRearrangeGenotype(t *testing.T) {
	tests := []struct {
		name     string
		original []string
		target   []string
		input    string
		expected string
	}{
		{"no-call", []string{"A", "B"}, []string{"B", "A"}, "./.", "./."},
		{"haploid no-call", []string{"A"}, []string{"G"}, ".", "."},
		{"swap", []string{"A", "B"}, []string{"B", "A"}, "0/1", "0/2"},
		{"unphased keeps order", []string{"A", "B"}, []string{"B", "A"}, "1/2", "2/1"},
		{"identity keeps order", []string{"A", "B"}, []string{"A", "B"}, "1/0", "1/0"},
		{"partial no-call", []string{"A"}, []string{"G", "A"}, "./1", "./2"},
		{"phased keeps order", []string{"A", "B"}, []string{"B", "A"}, "1|2", "2|1"},
		{"dropped allele", []string{"A", "B"}, []string{"B"}, "0/1", "0/."},
		{"haploid", []string{"T"}, []string{"A", "T"}, "1", "2"},
		{"reference", []string{"A"}, []string{"C", "A"}, "0/0", "0/0"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gt, err := ParseGenotype(test.input)
			require.NoError(t, err)
			rearranged := NewAlternateRearranger(test.original, test.target).RearrangeGenotype(gt)
			assert.Equal(t, test.expected, rearranged.String())
		})
	}
}

func TestRearrangeDispatch(t *testing.T) {
	rearranger := NewAlternateRearranger([]string{"A"}, []string{"G", "A"})

	tests := []struct {
		number   string
		value    string
		expected string
	}{
		{"A", "0.5", ".,0.5"},
		{"R", "10,5", "10,.,5"},
		{"G", "0,10,100", "0,.,.,10,.,100"},
		{"1", "35", "35"},
		{".", "x,y", "x,y"},
	}
	for _, test := range tests {
		number, err := ParseNumber(test.number)
		require.NoError(t, err)
		result, err := rearranger.Rearrange(number, test.value, 2)
		require.NoError(t, err)
		assert.Equal(t, test.expected, result, test.number)
	}
}
