package varmerge_api

import "github.com/pkg/errors"

// Errors returned by the merger and the rearranger.
// Callers can match them with errors.Is, every returned error wraps one of these.
var (
	// The merged records don't describe the same site (chromosome, position, reference or type)
	ErrSiteMismatch = errors.New("variants are not on the same site")

	// The same sample was merged twice into one site
	ErrDuplicateSample = errors.New("overlapping calls for same sample at same site")

	// A Number=G value doesn't have one entry per possible genotype of the ploidy
	ErrPloidyMismatch = errors.New("ploidy mismatch")

	// An allele string that can't be used in a VCF REF or ALT column
	ErrMalformedAllele = errors.New("malformed allele")

	// A GT value that can't be parsed
	ErrMalformedGenotype = errors.New("malformed genotype")
)
