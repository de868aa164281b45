package varmerge_api

import (
	"bufio"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/pkg/errors"
)

// A parsed input VCF file
type VCF struct {
	// The name of the file the VCF was read from
	Name string

	Header *Header

	// The records in file order
	Variants []*Variant
}

var headerLineRegex = regexp.MustCompile(`^##(?P<headerType>[^=]*)=<(?P<content>.*)>$`)

// ReadVcf reads a plain or bgzipped VCF file
func ReadVcf(file string, muteWarnings bool) (*VCF, error) {
	openFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer openFile.Close()

	var input io.Reader = openFile
	if strings.HasSuffix(file, ".gz") {
		bgReader, err := bgzf.NewReader(openFile, 1)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: failed to open the bgzip stream", file)
		}
		defer bgReader.Close()
		input = bgReader
	}

	vcf, err := ParseVcf(input, muteWarnings)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	vcf.Name = file
	return vcf, nil
}

// ParseVcf parses a VCF from an uncompressed stream
func ParseVcf(input io.Reader, muteWarnings bool) (*VCF, error) {
	logger := log.New(os.Stderr, "", 0)

	vcf := &VCF{Header: newHeader(), Variants: []*Variant{}}
	warned := map[string]bool{}

	scanner := bufio.NewScanner(input)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if err := vcf.Header.parse(line); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNumber)
			}
			continue
		}

		variant, err := createVariant(line, vcf.Header)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		for _, key := range variant.Format {
			if _, ok := vcf.Header.Format[key]; !ok && !warned[key] {
				warned[key] = true
				if !muteWarnings {
					logger.Printf("Field FORMAT/%s not found in header, its values won't be rearranged unless the config describes it", key)
				}
			}
		}
		vcf.Variants = append(vcf.Variants, variant)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vcf, nil
}

// Parse the line and add it to the Variant struct
func createVariant(line string, header *Header) (*Variant, error) {
	data := strings.Split(line, "\t")
	if len(data) < 8 {
		return nil, errors.Errorf("expected at least 8 columns, found %d", len(data))
	}

	variant := &Variant{
		Chromosome:      data[0],
		Id:              data[2],
		Ref:             data[3],
		Alternates:      []string{},
		Qual:            data[5],
		Filter:          data[6],
		Format:          []string{},
		SamplesPosition: map[string]int{},
		SamplesData:     [][]string{},
	}

	var err error
	variant.Pos, err = strconv.ParseInt(data[1], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid position '%s'", data[1])
	}
	if variant.Ref == "." {
		variant.Ref = ""
	}
	if data[4] != "." && data[4] != "" {
		variant.Alternates = strings.Split(data[4], ",")
	}
	variant.Type = InferVariantType(variant.Ref, variant.Alternates)

	variant.End = variant.Pos + int64(len(variant.Ref)) - 1
	if variant.End < variant.Pos {
		variant.End = variant.Pos
	}
	for _, info := range strings.Split(data[7], ";") {
		if !strings.HasPrefix(info, "END=") {
			continue
		}
		end, err := strconv.ParseInt(strings.TrimPrefix(info, "END="), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid INFO/END '%s'", info)
		}
		variant.End = end
	}

	if len(data) < 9 {
		return variant, nil
	}
	variant.Format = strings.Split(data[8], ":")
	formatValues := data[9:]
	if len(formatValues) != len(header.Samples) {
		return nil, errors.Errorf("found %d sample columns for %d samples in the header", len(formatValues), len(header.Samples))
	}
	for index, value := range formatValues {
		variant.SamplesPosition[header.Samples[index]] = index
		variant.SamplesData = append(variant.SamplesData, strings.Split(value, ":"))
	}

	return variant, nil
}

// Parse the header line and add it to the Header struct
func (header *Header) parse(line string) error {
	if strings.HasPrefix(line, "#CHROM") {
		columns := strings.Split(line, "\t")
		if len(columns) > 9 {
			header.Samples = columns[9:]
		}
		return nil
	}

	matches := headerLineRegex.FindStringSubmatch(line)
	if len(matches) == 0 {
		return nil
	}

	headerType := matches[1]
	contentMap := convertLineToMap(matches[2])

	switch headerType {
	case "FORMAT":
		number, err := ParseNumber(contentMap["number"])
		if err != nil {
			return errors.Wrapf(err, "FORMAT/%s", contentMap["id"])
		}
		header.Format[contentMap["id"]] = FormatFieldDescriptor{
			Id:          contentMap["id"],
			Number:      number,
			Type:        contentMap["type"],
			Description: strings.Trim(contentMap["description"], `"'`),
		}
	case "contig":
		length := int64(0)
		if value, ok := contentMap["length"]; ok {
			var err error
			length, err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "could not convert the length of contig %s to an integer", contentMap["id"])
			}
		}
		header.Contig = append(header.Contig, HeaderLineIdLength{
			Id:     contentMap["id"],
			Length: length,
		})
	}
	return nil
}

// convertLineToMap converts the header line contents to a map suitable to transform to a struct
func convertLineToMap(line string) map[string]string {
	data := map[string]string{}
	word := ""
	key := ""
	quote := ""
	for _, letter := range strings.Split(line, "") {
		if letter == "=" && quote == "" && key == "" {
			key = strings.ToLower(word)
			word = ""
			continue
		} else if letter == "," && quote == "" {
			data[key] = word
			key = ""
			word = ""
			continue
		}

		word += letter

		if letter == quote {
			quote = ""
		} else if quote == "" && (letter == "\"" || letter == "'") {
			quote = letter
		}
	}
	data[key] = word

	return data
}

// Create a new header struct
func newHeader() *Header {
	return &Header{
		Format:  map[string]FormatFieldDescriptor{},
		Contig:  []HeaderLineIdLength{},
		Samples: []string{},
	}
}
