package varmerge_api

// The struct representing the header of an input VCF file in a parseable format
type Header struct {
	// Object containing the FORMAT fields with their ID, Number, Type and Description
	// The ID is the key of the map
	Format map[string]FormatFieldDescriptor

	// List of all contigs in the VCF file with their ID and Length
	Contig []HeaderLineIdLength

	// List of all samples in the VCF file
	Samples []string
}

// A FORMAT header line, the Number decides how the values are rearranged on merge
type FormatFieldDescriptor struct {
	// The ID of the header line
	Id string

	// The number of values in the field
	// Can be any integer, "A", "G", "R" or "."
	// A = one value per alternate allele
	// G = one value per possible genotype
	// R = one value per possible allele
	// . = the number varies, is unkown or is unbounded
	Number Number

	// The type of the header line
	// Can be "Integer", "Float", "Flag", "String" or "Character"
	Type string

	// The description of the header line
	Description string
}

// A struct representing a header line in the VCF file with its ID and Length
type HeaderLineIdLength struct {
	// The ID of the header line
	Id string

	// The length of the contig, 0 when unknown
	Length int64
}

// A struct representing a variant record, both for the input records and for the merged site
type Variant struct {
	// The chromosome of the variant
	Chromosome string

	// The 1-based position of the variant
	Pos int64

	// The 1-based inclusive end position of the variant
	End int64

	// The ID of the variant
	Id string

	// The reference allele of the variant
	Ref string

	// The alternate alleles of the variant, without duplicates
	// The first one is the main alternate, the others are the secondary alternates
	Alternates []string

	// The Phred-scaled quality score of the variant
	Qual string

	// The filter status of the variant
	Filter string

	// The type of the variant
	Type VariantType

	// The FORMAT keys in their declared order
	Format []string

	// The row of each sample in SamplesData
	SamplesPosition map[string]int

	// One row per sample with one value per FORMAT key
	SamplesData [][]string
}

// The secondary alternates of the variant, all alternates after the first one
func (v *Variant) SecondaryAlternates() []string {
	if len(v.Alternates) < 2 {
		return []string{}
	}
	return v.Alternates[1:]
}

// The sample names of the variant in row order
func (v *Variant) Samples() []string {
	samples := make([]string, len(v.SamplesData))
	for sample, position := range v.SamplesPosition {
		samples[position] = sample
	}
	return samples
}

// The index of a FORMAT key, -1 when the variant doesn't have it
func (v *Variant) FormatIndex(key string) int {
	for i, k := range v.Format {
		if k == key {
			return i
		}
	}
	return -1
}

// The value of a FORMAT key for a sample
func (v *Variant) SampleValue(sample string, key string) (string, bool) {
	row, ok := v.SamplesPosition[sample]
	if !ok {
		return "", false
	}
	column := v.FormatIndex(key)
	if column < 0 || column >= len(v.SamplesData[row]) {
		return "", false
	}
	return v.SamplesData[row][column], true
}

//
// Config structs
//

// The struct representing the configuration file
// The config file is a YAML file
type Config struct {
	// The placeholder for missing values
	Missing string `yaml:"missing"`

	// The ploidy used for samples without a genotype
	Ploidy int `yaml:"ploidy"`

	// The FORMAT key that receives the FILTER of each source record, disabled when empty
	SampleFilter string `yaml:"sampleFilter"`

	// The size of the genomic chunks that are merged in parallel
	ChunkSize int64 `yaml:"chunkSize"`

	// The FORMAT fields with their Number, Type and Description
	Format MapConfigInput `yaml:"format"`
}

// A map construct for the FORMAT field configurations
type MapConfigInput map[string]ConfigInput

// A struct representing the configuration of a FORMAT field
type ConfigInput struct {
	// The number of values in the field
	Number string `yaml:"number"`

	// The type of the field
	Type string `yaml:"type"`

	// The description of the field
	// This is used to generate the VCF header
	Description string `yaml:"description"`
}
