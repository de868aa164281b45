package varmerge_api

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputHeader = `##fileformat=VCFv4.2
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=AD,Number=R,Type=Integer,Description="Allelic depths">
##contig=<ID=chr1,length=1000>
`

func writeInputs(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	inputs := map[string]string{
		"s01.vcf": inputHeader +
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS01\n" +
			"chr1\t100\trs1\tA\tC\t50\tPASS\t.\tGT:AD\t0/1:10,5\n" +
			"chr1\t200\t.\tG\tT\t30\tPASS\t.\tGT:AD\t1/1:0,12\n",
		"s02.vcf": inputHeader +
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS02\n" +
			"chr1\t100\t.\tA\tG\t40\tPASS\t.\tGT:AD\t0/1:8,3\n" +
			"chr1\t300\t.\tT\tTA\t20\tLowQual\t.\tGT:AD\t0/1:7,7\n",
	}
	paths := []string{}
	for _, name := range []string{"s01.vcf", "s02.vcf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(inputs[name]), 0644))
		paths = append(paths, path)
	}
	return paths
}

func TestRun(t *testing.T) {
	output := filepath.Join(t.TempDir(), "merged.vcf")
	err := Run(context.Background(), DefaultConfig(), &Options{
		Inputs:       writeInputs(t),
		Output:       output,
		NoDate:       true,
		Threads:      2,
		MuteWarnings: true,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"##fileformat=VCFv4.2",
		`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
		`##FORMAT=<ID=AD,Number=R,Type=Integer,Description="Allelic depths for the ref and alt alleles in the order listed">`,
		`##INFO=<ID=END,Number=1,Type=Integer,Description="End position of the variant described in this record">`,
		"##contig=<ID=chr1,length=1000>",
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS01\tS02",
		"chr1\t100\trs1\tA\tC,G\t.\tPASS\t.\tGT:AD\t0/1:10,5,.\t0/2:8,.,3",
		"chr1\t200\t.\tG\tT\t30\tPASS\t.\tGT:AD\t1/1:0,12\t./.:.",
		"chr1\t300\t.\tT\tTA\t20\tLowQual\t.\tGT:AD\t./.:.\t0/1:7,7",
	}, strings.Split(strings.TrimSuffix(string(content), "\n"), "\n"))
}

func TestRunBgzipOutput(t *testing.T) {
	output := filepath.Join(t.TempDir(), "merged.vcf.gz")
	err := Run(context.Background(), DefaultConfig(), &Options{
		Inputs:       writeInputs(t),
		Output:       output,
		Threads:      1,
		MuteWarnings: true,
	})
	require.NoError(t, err)

	vcf, err := ReadVcf(output, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"S01", "S02"}, vcf.Header.Samples)
	require.Len(t, vcf.Variants, 3)
	assert.Equal(t, []string{"C", "G"}, vcf.Variants[0].Alternates)
	assert.Equal(t, NumberR, vcf.Header.Format["AD"].Number.Kind)
}

func TestRunErrors(t *testing.T) {
	err := Run(context.Background(), DefaultConfig(), &Options{})
	assert.Error(t, err)

	err = Run(context.Background(), DefaultConfig(), &Options{
		Inputs: []string{filepath.Join(t.TempDir(), "missing.vcf")},
	})
	assert.Error(t, err)
}

func TestVariantString(t *testing.T) {
	merger := NewMerger(DefaultConfig())
	block := testVariant("C", []string{}, []string{"GT", "DP"}, []string{"S01"}, []string{"0/0", "30"})
	block.End = 150

	assert.Equal(t,
		"chr1\t100\t.\tC\t.\t.\tPASS\tEND=150\tGT:DP\t0/0:30\t./.:.",
		block.String([]string{"S01", "S02"}, merger),
	)
	assert.Equal(t,
		"chr1\t100\t.\tC\t.\t.\tPASS\tEND=150",
		block.String(nil, merger),
	)

	noFormat := testVariant("C", []string{"A"}, []string{}, []string{})
	assert.Equal(t,
		"chr1\t100\t.\tC\tA\t.\tPASS\t.\t.\t.",
		noFormat.String([]string{"S01"}, merger),
	)
}
