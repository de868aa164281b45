package varmerge_api

import (
	"log"
	"os"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

const (
	defaultMissing   = "."
	defaultPloidy    = 2
	defaultChunkSize = 1000000
)

// Read the configuration file, cast it to its struct and validate
// The defaults are used when no config file has been given
func ReadConfig(Cctx *cli.Context) *Config {
	logger := log.New(os.Stderr, "", 0)

	if Cctx.String("config") == "" {
		return DefaultConfig()
	}

	configFile, err := os.ReadFile(Cctx.String("config"))
	if err != nil {
		logger.Fatalf("Failed to open the config file: %v", err)
	}

	config, err := ParseConfig(configFile)
	if err != nil {
		logger.Fatalf("Failed to parse the config file: %v", err)
	}
	return config
}

// ParseConfig reads a YAML config and fills in the missing fields
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return nil, errors.Wrap(err, "invalid YAML")
	}

	config.defineMissing()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultConfig returns the configuration used without a config file
func DefaultConfig() *Config {
	config := &Config{}
	config.defineMissing()
	return config
}

// Define all missing mandatory fields
func (config *Config) defineMissing() {
	if config.Missing == "" {
		config.Missing = defaultMissing
	}
	if config.Ploidy == 0 {
		config.Ploidy = defaultPloidy
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = defaultChunkSize
	}
	if config.Format == nil {
		config.Format = MapConfigInput{}
	}

	defaults := MapConfigInput{
		"GT": {Number: "1", Type: "String", Description: "Genotype"},
		"AD": {Number: "R", Type: "Integer", Description: "Allelic depths for the ref and alt alleles in the order listed"},
		"DP": {Number: "1", Type: "Integer", Description: "Approximate read depth"},
		"GQ": {Number: "1", Type: "Integer", Description: "Genotype Quality"},
		"PL": {Number: "G", Type: "Integer", Description: "Normalized, Phred-scaled likelihoods for genotypes as defined in the VCF specification"},
		"GL": {Number: "G", Type: "Float", Description: "Genotype likelihoods"},
		"GP": {Number: "G", Type: "Float", Description: "Genotype posterior probabilities"},
		"AF": {Number: "A", Type: "Float", Description: "Allele fractions of alternate alleles"},
	}
	for key, input := range defaults {
		if _, ok := config.Format[key]; !ok {
			config.Format[key] = input
		}
	}

	if config.SampleFilter != "" {
		if _, ok := config.Format[config.SampleFilter]; !ok {
			config.Format[config.SampleFilter] = ConfigInput{
				Number:      "1",
				Type:        "String",
				Description: "Filter status of the record the sample was called in",
			}
		}
	}
}

func (config *Config) validate() error {
	if config.Ploidy < 1 {
		return errors.Errorf("ploidy should be at least 1, got %d", config.Ploidy)
	}
	if config.ChunkSize < 1 {
		return errors.Errorf("chunkSize should be at least 1, got %d", config.ChunkSize)
	}
	for key, input := range config.Format {
		if _, err := ParseNumber(input.Number); err != nil {
			return errors.Wrapf(err, "FORMAT/%s", key)
		}
	}
	return nil
}

// Descriptors converts the FORMAT configuration to field descriptors
func (config *Config) Descriptors() map[string]FormatFieldDescriptor {
	descriptors := make(map[string]FormatFieldDescriptor, len(config.Format))
	for key, input := range config.Format {
		number, err := ParseNumber(input.Number)
		if err != nil {
			number = Number{Kind: NumberUnbounded}
		}
		descriptors[key] = FormatFieldDescriptor{
			Id:          key,
			Number:      number,
			Type:        input.Type,
			Description: input.Description,
		}
	}
	return descriptors
}
