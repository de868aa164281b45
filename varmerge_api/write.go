package varmerge_api

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/biogo/hts/bgzf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// The destination of the merged VCF: stdout, a plain file or a bgzipped file
type output struct {
	*bufio.Writer
	closers []io.Closer
}

// newOutput opens the output, an empty path writes to stdout and a path ending in .gz is bgzipped
func newOutput(path string) (*output, error) {
	if path == "" {
		return &output{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		bgWriter := bgzf.NewWriter(file, 1)
		return &output{Writer: bufio.NewWriter(bgWriter), closers: []io.Closer{bgWriter, file}}, nil
	}
	return &output{Writer: bufio.NewWriter(file), closers: []io.Closer{file}}, nil
}

func (o *output) Close() error {
	err := o.Flush()
	for _, closer := range o.closers {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Write a line to the output
func writeLine(line string, w io.Writer) error {
	_, err := io.WriteString(w, line+"\n")
	return err
}

// mergeHeaders combines the contigs and samples of all inputs, in input order
func mergeHeaders(vcfs []*VCF) *Header {
	header := newHeader()
	seenContigs := map[string]bool{}
	seenSamples := map[string]bool{}
	for _, vcf := range vcfs {
		for _, contig := range vcf.Header.Contig {
			if !seenContigs[contig.Id] {
				seenContigs[contig.Id] = true
				header.Contig = append(header.Contig, contig)
			}
		}
		for _, sample := range vcf.Header.Samples {
			if !seenSamples[sample] {
				seenSamples[sample] = true
				header.Samples = append(header.Samples, sample)
			}
		}
	}
	return header
}

// formatKeys returns the FORMAT keys used by the variants, GT first and the others sorted
func formatKeys(variants [][]*Variant) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, chunk := range variants {
		for _, variant := range chunk {
			for _, key := range variant.Format {
				if !seen[key] {
					seen[key] = true
					keys = append(keys, key)
				}
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "GT" || keys[j] == "GT" {
			return keys[i] == "GT" && keys[j] != "GT"
		}
		return keys[i] < keys[j]
	})
	return keys
}

func writeHeader(w io.Writer, header *Header, keys []string, merger *Merger, nodate bool) error {
	lines := []string{"##fileformat=VCFv4.2"}

	// Date of file creation
	if !nodate {
		cT := time.Now()
		lines = append(lines, fmt.Sprintf("##fileDate=%d%02d%02d", cT.Year(), cT.Month(), cT.Day()))
	}

	descriptionRegex := regexp.MustCompile(`["']?([^"']*)["']?`)

	// Write the format fields
	for _, key := range keys {
		format := merger.Descriptor(key)
		description := descriptionRegex.FindStringSubmatch(format.Description)[1]
		formatType := cases.Title(language.English, cases.Compact).String(strings.ToLower(format.Type))
		if formatType == "" {
			formatType = "String"
		}
		lines = append(lines, fmt.Sprintf("##FORMAT=<ID=%s,Number=%s,Type=%s,Description=\"%s\">", key, format.Number, formatType, description))
	}
	lines = append(lines, `##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant described in this record">`)

	// Write the contig fields
	for _, contig := range header.Contig {
		if contig.Length > 0 {
			lines = append(lines, fmt.Sprintf("##contig=<ID=%s,length=%d>", contig.Id, contig.Length))
		} else {
			lines = append(lines, fmt.Sprintf("##contig=<ID=%s>", contig.Id))
		}
	}

	// Write the column headers
	columnHeaders := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}
	if len(header.Samples) > 0 {
		columnHeaders = append(columnHeaders, "FORMAT")
		columnHeaders = append(columnHeaders, header.Samples...)
	}
	lines = append(lines, strings.Join(columnHeaders, "\t"))

	for _, line := range lines {
		if err := writeLine(line, w); err != nil {
			return err
		}
	}
	return nil
}

// Convert a variant to a VCF line with a column for each of the samples.
// Samples that aren't part of the variant get missing values.
func (v *Variant) String(samples []string, merger *Merger) string {
	ref := v.Ref
	if ref == "" {
		ref = "."
	}
	alt := "."
	if len(v.Alternates) > 0 {
		alt = strings.Join(v.Alternates, ",")
	}
	info := "."
	if impliedEnd := v.Pos + int64(len(v.Ref)) - 1; v.End != impliedEnd && v.End != v.Pos {
		info = fmt.Sprintf("END=%d", v.End)
	}

	columns := []string{v.Chromosome, fmt.Sprint(v.Pos), v.Id, ref, alt, v.Qual, v.Filter, info}
	if len(samples) == 0 {
		return strings.Join(columns, "\t")
	}

	if len(v.Format) == 0 {
		columns = append(columns, ".")
		for range samples {
			columns = append(columns, ".")
		}
		return strings.Join(columns, "\t")
	}

	columns = append(columns, strings.Join(v.Format, ":"))
	for _, sample := range samples {
		sampleArray := make([]string, len(v.Format))
		row, ok := v.SamplesPosition[sample]
		for i, key := range v.Format {
			if ok && i < len(v.SamplesData[row]) {
				sampleArray[i] = v.SamplesData[row][i]
			} else {
				sampleArray[i] = merger.missingValue(key)
			}
		}
		columns = append(columns, strings.Join(sampleArray, ":"))
	}
	return strings.Join(columns, "\t")
}
