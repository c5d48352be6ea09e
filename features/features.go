// Package features defines the point (peak) and paired-anchor (loop) records
// that drive counting, and loads them from BED/BEDPE files.
package features

import (
	"fmt"

	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/bed/bedpe"
)

// Peak is one point feature. Coordinates are zero-based half-open.
type Peak struct {
	Chrom string
	Start int
	End   int
	Name  string
}

// Midpoint returns the reference point used for windowed counting.
func (p Peak) Midpoint() int {
	return (p.Start + p.End) / 2
}

// Loop is one paired-anchor feature. Coordinates are zero-based half-open.
type Loop struct {
	Chrom1 string
	Start1 int
	End1   int
	Chrom2 string
	Start2 int
	End2   int
	Name   string
}

// LoadPeaks reads a BED file into Peak records. Rows without a name column
// get a stable positional id. A malformed interval aborts the load with the
// offending row so that counting never starts on bad input.
func LoadPeaks(filename string) ([]Peak, error) {
	records := bed.Read(filename)
	ans := make([]Peak, 0, len(records))
	for i := range records {
		p := Peak{
			Chrom: records[i].Chrom,
			Start: records[i].ChromStart,
			End:   records[i].ChromEnd,
			Name:  records[i].Name,
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("peak_%d", i)
		}
		if p.Start >= p.End {
			return nil, fmt.Errorf("malformed peak on row %d: %s:%d-%d (start must be < end)", i+1, p.Chrom, p.Start, p.End)
		}
		ans = append(ans, p)
	}
	return ans, nil
}

// LoadLoops reads a BEDPE file into Loop records, validating both anchors.
func LoadLoops(filename string) ([]Loop, error) {
	records := bedpe.Read(filename)
	ans := make([]Loop, 0, len(records))
	for i := range records {
		l := Loop{
			Chrom1: records[i].A.Chrom,
			Start1: records[i].A.ChromStart,
			End1:   records[i].A.ChromEnd,
			Chrom2: records[i].B.Chrom,
			Start2: records[i].B.ChromStart,
			End2:   records[i].B.ChromEnd,
			Name:   records[i].A.Name,
		}
		if l.Name == "" {
			l.Name = fmt.Sprintf("loop_%d", i)
		}
		if l.Start1 >= l.End1 {
			return nil, fmt.Errorf("malformed loop anchor 1 on row %d: %s:%d-%d (start must be < end)", i+1, l.Chrom1, l.Start1, l.End1)
		}
		if l.Start2 >= l.End2 {
			return nil, fmt.Errorf("malformed loop anchor 2 on row %d: %s:%d-%d (start must be < end)", i+1, l.Chrom2, l.Start2, l.End2)
		}
		ans = append(ans, l)
	}
	return ans, nil
}
