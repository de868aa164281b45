package varmerge_api

import (
	"context"
	"log"
	"os"
	"runtime"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

// The settings of one merge run
type Options struct {
	// The input VCF files, plain or bgzipped
	Inputs []string

	// The output VCF file, stdout when empty
	Output string

	// Don't add the current date to the output header
	NoDate bool

	// The number of chunks merged at the same time
	Threads int

	// Stop at the first site that can't be merged instead of skipping it
	FailFast bool

	// Don't log warnings
	MuteWarnings bool
}

// Execute runs the merge with the flags of the command line
func Execute(Cctx *cli.Context, config *Config) {
	logger := log.New(os.Stderr, "", 0)

	options := &Options{
		Inputs:       Cctx.StringSlice("input"),
		Output:       Cctx.String("output"),
		NoDate:       Cctx.Bool("nodate"),
		Threads:      Cctx.Int("threads"),
		FailFast:     Cctx.Bool("fail-fast"),
		MuteWarnings: Cctx.Bool("mute-warnings"),
	}
	if options.Threads < 1 {
		options.Threads = runtime.NumCPU()
	}

	if err := Run(Cctx.Context, config, options); err != nil {
		logger.Fatal(err)
	}
}

// Run reads all inputs, merges the records of every site and writes the merged VCF
func Run(ctx context.Context, config *Config, options *Options) error {
	if len(options.Inputs) == 0 {
		return errors.New("no input VCF files given")
	}

	vcfs := make([]*VCF, 0, len(options.Inputs))
	headers := make([]*Header, 0, len(options.Inputs))
	for _, input := range options.Inputs {
		vcf, err := ReadVcf(input, options.MuteWarnings)
		if err != nil {
			return errors.Wrap(err, "failed to read the input VCF")
		}
		vcfs = append(vcfs, vcf)
		headers = append(headers, vcf.Header)
	}

	merger := NewMerger(config, headers...)
	chunks := SplitChunks(GroupSites(vcfs), config.ChunkSize)
	merged, err := MergeChunks(ctx, merger, chunks, options.Threads, options.FailFast, options.MuteWarnings)
	if err != nil {
		return err
	}

	out, err := newOutput(options.Output)
	if err != nil {
		return errors.Wrap(err, "failed to create the output file")
	}

	header := mergeHeaders(vcfs)
	if err := writeHeader(out, header, formatKeys(merged), merger, options.NoDate); err != nil {
		out.Close()
		return err
	}
	for _, chunk := range merged {
		for _, variant := range chunk {
			if err := writeLine(variant.String(header.Samples, merger), out); err != nil {
				out.Close()
				return err
			}
		}
	}
	return out.Close()
}
