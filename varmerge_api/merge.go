package varmerge_api

import (
	"strings"

	"github.com/pkg/errors"
)

// Merger folds variant records of the same site into one accumulator.
// A Merger is read-only once created, the accumulators it works on are not safe for concurrent use.
type Merger struct {
	// FORMAT descriptors by key, they decide how each column is rearranged
	formats map[string]FormatFieldDescriptor

	// The placeholder for missing values
	missing string

	// The ploidy used for samples without a usable GT
	ploidy int

	// The FORMAT key that receives the FILTER of the source record, disabled when empty
	sampleFilter string
}

// NewMerger creates a merger from the config, FORMAT fields the config doesn't describe are taken from the headers
func NewMerger(config *Config, headers ...*Header) *Merger {
	formats := config.Descriptors()
	for _, header := range headers {
		if header == nil {
			continue
		}
		for key, descriptor := range header.Format {
			if _, ok := formats[key]; !ok {
				formats[key] = descriptor
			}
		}
	}
	return &Merger{
		formats:      formats,
		missing:      config.Missing,
		ploidy:       config.Ploidy,
		sampleFilter: config.SampleFilter,
	}
}

// The descriptor of a FORMAT key, unknown keys are unbounded
func (m *Merger) Descriptor(key string) FormatFieldDescriptor {
	if descriptor, ok := m.formats[key]; ok {
		return descriptor
	}
	return FormatFieldDescriptor{Id: key, Number: Number{Kind: NumberUnbounded}, Type: "String"}
}

// CreateFromTemplate creates an empty accumulator on the site of the template
func (m *Merger) CreateFromTemplate(template *Variant) *Variant {
	return &Variant{
		Chromosome:      template.Chromosome,
		Pos:             template.Pos,
		End:             template.End,
		Id:              ".",
		Ref:             template.Ref,
		Alternates:      []string{},
		Qual:            template.Qual,
		Filter:          template.Filter,
		Type:            template.Type,
		Format:          []string{},
		SamplesPosition: map[string]int{},
		SamplesData:     [][]string{},
	}
}

// MergeAll merges all records of one site into a new accumulator
func (m *Merger) MergeAll(variants []*Variant) (*Variant, error) {
	if len(variants) == 0 {
		return nil, errors.New("no variants to merge")
	}
	acc := m.CreateFromTemplate(variants[0])
	for _, variant := range variants {
		if err := m.Merge(acc, variant); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", variant.Chromosome, variant.Pos)
		}
	}
	return acc, nil
}

// Merge adds the alternates and samples of next to the accumulator.
// Nothing is changed in the accumulator when an error is returned.
func (m *Merger) Merge(acc *Variant, next *Variant) error {
	if err := m.validate(acc, next); err != nil {
		return err
	}

	alternates := mergeAlternates(acc.Alternates, next.Alternates)
	format := m.mergeFormat(acc.Format, next.Format)

	// Existing samples keep their allele indices, their allele dependent fields grow with the new alternates
	accRearranger := NewAlternateRearranger(acc.Alternates, alternates).WithMissing(m.missing)
	rows := make([][]string, 0, len(acc.SamplesData)+len(next.SamplesData))
	for _, row := range acc.SamplesData {
		newRow, err := m.rearrangeRow(accRearranger, acc.Format, row, format, nil)
		if err != nil {
			return err
		}
		rows = append(rows, newRow)
	}

	nextRearranger := NewAlternateRearranger(next.Alternates, alternates).WithMissing(m.missing)
	for _, row := range next.SamplesData {
		newRow, err := m.rearrangeRow(nextRearranger, next.Format, row, format, next)
		if err != nil {
			return err
		}
		rows = append(rows, newRow)
	}

	positions := make(map[string]int, len(rows))
	for sample, position := range acc.SamplesPosition {
		positions[sample] = position
	}
	for i, sample := range next.Samples() {
		positions[sample] = len(acc.SamplesData) + i
	}

	acc.Alternates = alternates
	acc.Format = format
	acc.SamplesData = rows
	acc.SamplesPosition = positions
	acc.Type = combineTypes(acc.Type, next.Type)
	if next.End > acc.End {
		acc.End = next.End
	}
	acc.Id = mergeIds(acc.Id, next.Id)
	if acc.Qual != next.Qual {
		acc.Qual = "."
	}
	if acc.Filter != next.Filter {
		acc.Filter = "."
	}
	return nil
}

// validate checks everything that could make the merge fail halfway
func (m *Merger) validate(acc *Variant, next *Variant) error {
	if acc.Chromosome != next.Chromosome || acc.Pos != next.Pos {
		return errors.Wrapf(
			ErrSiteMismatch,
			"can't merge %s:%d into %s:%d", next.Chromosome, next.Pos, acc.Chromosome, acc.Pos,
		)
	}
	if acc.Ref != next.Ref {
		return errors.Wrapf(ErrSiteMismatch, "reference '%s' differs from '%s'", next.Ref, acc.Ref)
	}
	if !mergeableTypes(acc.Type, next.Type) {
		return errors.Wrapf(ErrSiteMismatch, "can't merge a %v variant into a %v variant", next.Type, acc.Type)
	}

	if !validateReference(next.Ref) {
		return errors.Wrapf(ErrMalformedAllele, "reference '%s'", next.Ref)
	}
	seen := make(map[string]bool, len(next.Alternates))
	for _, alt := range next.Alternates {
		if !validateAllele(alt) {
			return errors.Wrapf(ErrMalformedAllele, "alternate '%s'", alt)
		}
		if seen[alt] {
			return errors.Wrapf(ErrMalformedAllele, "duplicate alternate '%s'", alt)
		}
		seen[alt] = true
	}

	if len(next.SamplesPosition) != len(next.SamplesData) {
		return errors.Errorf("%d sample names for %d sample rows", len(next.SamplesPosition), len(next.SamplesData))
	}
	rows := make([]bool, len(next.SamplesData))
	for sample, position := range next.SamplesPosition {
		if _, ok := acc.SamplesPosition[sample]; ok {
			return errors.Wrapf(ErrDuplicateSample, "sample %s at %s:%d", sample, acc.Chromosome, acc.Pos)
		}
		if position < 0 || position >= len(next.SamplesData) || rows[position] {
			return errors.Errorf("sample %s points to an invalid row %d", sample, position)
		}
		rows[position] = true
		if len(next.SamplesData[position]) > len(next.Format) {
			return errors.Errorf(
				"sample %s has %d values for %d FORMAT keys", sample, len(next.SamplesData[position]), len(next.Format),
			)
		}
	}
	return nil
}

// rearrangeRow builds the row of a sample for the merged FORMAT keys.
// source is the record the row comes from when it's a new sample, nil for rows already in the accumulator.
func (m *Merger) rearrangeRow(
	rearranger *AlternateRearranger,
	keys []string,
	row []string,
	format []string,
	source *Variant,
) ([]string, error) {
	values := make(map[string]string, len(keys))
	for i, key := range keys {
		if i < len(row) {
			values[key] = row[i]
		}
	}

	// a no-call like "." doesn't tell the ploidy, G fields then size it from their own value count
	ploidy := m.ploidy
	inferPloidy := true
	var gt *Genotype
	if value, ok := values["GT"]; ok && value != "" {
		parsed, err := ParseGenotype(value)
		if err != nil {
			return nil, err
		}
		if source != nil && parsed.MaxAllele() > len(source.Alternates) {
			return nil, errors.Wrapf(
				ErrMalformedGenotype, "'%s' references allele %d of %d alternates",
				value, parsed.MaxAllele(), len(source.Alternates),
			)
		}
		gt = &parsed
		if !parsed.IsNoCall() {
			ploidy = parsed.Ploidy()
			inferPloidy = false
		}
	}

	newRow := make([]string, len(format))
	for i, key := range format {
		value, ok := values[key]
		if source != nil && key == m.sampleFilter && !ok {
			newRow[i] = source.Filter
			continue
		}
		if !ok {
			newRow[i] = m.missingValue(key)
			continue
		}
		if key == "GT" {
			if gt == nil {
				newRow[i] = value
			} else {
				newRow[i] = rearranger.RearrangeGenotype(*gt).String()
			}
			continue
		}
		number := m.Descriptor(key).Number
		valuePloidy := ploidy
		if inferPloidy && number.Kind == NumberG {
			valuePloidy = ploidyOfValues(rearranger.Mapping().OriginalAlleles(), value, ploidy)
		}
		rearranged, err := rearranger.Rearrange(number, value, valuePloidy)
		if err != nil {
			return nil, errors.Wrapf(err, "FORMAT/%s", key)
		}
		newRow[i] = rearranged
	}
	return newRow, nil
}

// The highest ploidy tried when sizing a G field by its value count
const maxInferredPloidy = 8

// ploidyOfValues finds the ploidy whose genotype count over the alleles matches the number of values of a G field
func ploidyOfValues(alleles int, value string, fallback int) int {
	if alleles < 2 || value == "" || value == "." {
		return fallback
	}
	count := strings.Count(value, ",") + 1
	for ploidy := 1; ploidy <= maxInferredPloidy; ploidy++ {
		genotypes := GenotypeCount(alleles, ploidy)
		if genotypes == count {
			return ploidy
		}
		if genotypes > count {
			break
		}
	}
	return fallback
}

// missingValue is the filler for a FORMAT key a sample doesn't have
func (m *Merger) missingValue(key string) string {
	if key == "GT" {
		return NoCall(m.ploidy).String()
	}
	return m.missing
}

// mergeFormat appends the keys of next that the accumulator doesn't have yet, GT is moved to the front
func (m *Merger) mergeFormat(accFormat []string, nextFormat []string) []string {
	format := append([]string{}, accFormat...)
	present := make(map[string]bool, len(accFormat))
	for _, key := range accFormat {
		present[key] = true
	}
	add := func(key string) {
		if !present[key] {
			present[key] = true
			format = append(format, key)
		}
	}
	for _, key := range nextFormat {
		add(key)
	}
	if m.sampleFilter != "" {
		add(m.sampleFilter)
	}
	// GT has to be the first key of a sample column
	for i, key := range format {
		if key == "GT" && i > 0 {
			copy(format[1:i+1], format[:i])
			format[0] = "GT"
			break
		}
	}
	return format
}

// mergeAlternates appends the alternates of next that the accumulator doesn't have yet
func mergeAlternates(accAlternates []string, nextAlternates []string) []string {
	alternates := append([]string{}, accAlternates...)
	present := make(map[string]bool, len(accAlternates))
	for _, alt := range accAlternates {
		present[alt] = true
	}
	for _, alt := range nextAlternates {
		if !present[alt] {
			present[alt] = true
			alternates = append(alternates, alt)
		}
	}
	return alternates
}

// mergeIds returns the union of two ';' separated ID lists
func mergeIds(a string, b string) string {
	ids := []string{}
	seen := map[string]bool{}
	for _, id := range append(strings.Split(a, ";"), strings.Split(b, ";")...) {
		if id == "" || id == "." || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "."
	}
	return strings.Join(ids, ";")
}
