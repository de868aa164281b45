package varmerge_api

import (
	"context"
	"log"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"
)

// All input records on the same chromosome, position and reference that can be merged together
type Site struct {
	Chromosome string
	Pos        int64
	Ref        string

	// True for the site holding the symbolic and breakend records
	Symbolic bool

	Variants []*Variant
}

// A genomic window of sites that is merged by one worker
type Chunk struct {
	Chromosome string

	// The 1-based inclusive bounds of the window
	Start int64
	End   int64

	Sites []*Site
}

// chunkStart returns the first position of the chunk that holds pos
func chunkStart(pos int64, size int64) int64 {
	if pos < 1 {
		return 1
	}
	return ((pos-1)/size)*size + 1
}

// contigOrder ranks the chromosomes by the contig lines of the headers, unknown chromosomes follow in order of appearance
func contigOrder(vcfs []*VCF) map[string]int {
	order := map[string]int{}
	add := func(chromosome string) {
		if _, ok := order[chromosome]; !ok {
			order[chromosome] = len(order)
		}
	}
	for _, vcf := range vcfs {
		for _, contig := range vcf.Header.Contig {
			add(contig.Id)
		}
	}
	for _, vcf := range vcfs {
		for _, variant := range vcf.Variants {
			add(variant.Chromosome)
		}
	}
	return order
}

// GroupSites collects the records of all inputs per site, the sites are sorted by contig, position and reference.
// Symbolic records get their own site next to the sequence records of the same position.
// Inside a site the records keep the input order.
func GroupSites(vcfs []*VCF) []*Site {
	type siteKey struct {
		chromosome string
		pos        int64
		ref        string
		symbolic   bool
	}

	sites := []*Site{}
	index := map[siteKey]*Site{}
	for _, vcf := range vcfs {
		for _, variant := range vcf.Variants {
			key := siteKey{variant.Chromosome, variant.Pos, variant.Ref, variant.Type == Symbolic}
			site, ok := index[key]
			if !ok {
				site = &Site{Chromosome: variant.Chromosome, Pos: variant.Pos, Ref: variant.Ref, Symbolic: key.symbolic}
				index[key] = site
				sites = append(sites, site)
			}
			site.Variants = append(site.Variants, variant)
		}
	}

	order := contigOrder(vcfs)
	sort.SliceStable(sites, func(i, j int) bool {
		a, b := sites[i], sites[j]
		if a.Chromosome != b.Chromosome {
			return order[a.Chromosome] < order[b.Chromosome]
		}
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		if a.Ref != b.Ref {
			return a.Ref < b.Ref
		}
		return !a.Symbolic && b.Symbolic
	})
	return sites
}

// SplitChunks divides sorted sites into windows of size bases, a chunk never spans two chromosomes
func SplitChunks(sites []*Site, size int64) []*Chunk {
	chunks := []*Chunk{}
	var current *Chunk
	for _, site := range sites {
		start := chunkStart(site.Pos, size)
		if current == nil || current.Chromosome != site.Chromosome || current.Start != start {
			current = &Chunk{
				Chromosome: site.Chromosome,
				Start:      start,
				End:        start + size - 1,
			}
			chunks = append(chunks, current)
		}
		current.Sites = append(current.Sites, site)
	}
	return chunks
}

// MergeChunks merges every site of the chunks with up to threads workers.
// The result holds the merged variants of each chunk in chunk order.
// A site that fails to merge is skipped with a warning, or stops all workers when failFast is set.
func MergeChunks(
	ctx context.Context,
	merger *Merger,
	chunks []*Chunk,
	threads int,
	failFast bool,
	muteWarnings bool,
) ([][]*Variant, error) {
	logger := log.New(os.Stderr, "", 0)

	results := make([][]*Variant, len(chunks))
	eg, ctx := errgroup.WithContext(ctx)
	if threads < 1 {
		threads = 1
	}
	eg.SetLimit(threads)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		eg.Go(func() error {
			merged := make([]*Variant, 0, len(chunk.Sites))
			for _, site := range chunk.Sites {
				if err := ctx.Err(); err != nil {
					return err
				}
				acc, err := merger.MergeAll(site.Variants)
				if err != nil {
					if failFast {
						return err
					}
					if !muteWarnings {
						logger.Printf("Skipping site %s:%d: %v", site.Chromosome, site.Pos, err)
					}
					continue
				}
				merged = append(merged, acc)
			}
			results[i] = merged
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
