// Package bamio provides indexed random access to a coordinate-sorted BAM
// for interval-scoped read retrieval.
package bamio

import (
	"fmt"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/sam"
)

// Reader wraps an open BAM plus its bai index. The alignment is never
// mutated; all access is read-only.
type Reader struct {
	bam    *sam.BamReader
	bai    sam.Bai
	header sam.Header
	chroms map[string]bool
}

// Open opens filename and its index at filename.bai.
func Open(filename string) *Reader {
	br, header := sam.OpenBam(filename)
	bai := sam.ReadBai(filename + ".bai")
	chroms := make(map[string]bool)
	for i := range header.Chroms {
		chroms[header.Chroms[i].Name] = true
	}
	return &Reader{bam: br, bai: bai, header: header, chroms: chroms}
}

// HasChrom reports whether the alignment reference includes chrom. Feature
// files naming chromosomes absent from the reference must be rejected before
// counting begins.
func (r *Reader) HasChrom(chrom string) bool {
	return r.chroms[chrom]
}

// Fetch returns all reads overlapping the zero-based half-open interval.
// Negative starts are clamped to zero. The result may be empty.
func (r *Reader) Fetch(chrom string, start, end int) ([]sam.Sam, error) {
	if !r.chroms[chrom] {
		return nil, fmt.Errorf("chromosome %q not present in alignment header", chrom)
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return nil, nil
	}
	return sam.SeekBamRegion(r.bam, r.bai, chrom, uint32(start), uint32(end)), nil
}

func (r *Reader) Close() {
	err := r.bam.Close()
	exception.PanicOnErr(err)
}
