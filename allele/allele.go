// Package allele assigns a parental origin to individual alignments based on
// a haplotype tag written by an upstream phasing pipeline.
package allele

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vertgenlab/gonomics/sam"
)

// Label is the parental origin assigned to a single alignment.
type Label byte

const (
	Excluded Label = iota // failed quality or duplicate filters
	Ambiguous
	Maternal
	Paternal
)

func (l Label) String() string {
	switch l {
	case Excluded:
		return "Excluded"
	case Ambiguous:
		return "Ambiguous"
	case Maternal:
		return "Maternal"
	case Paternal:
		return "Paternal"
	}
	return "Unknown"
}

// Defaults match the read-group naming conventions of common phased
// HiChIP/Hi-C pipelines.
const (
	DefaultMaternalPattern string = "^(?:maternal|mat|M)$"
	DefaultPaternalPattern string = "^(?:paternal|pat|P)$"
	DefaultOriginTag       string = "RG"
)

const duplicateFlag uint16 = 0x400

// Patterns holds the compiled haplotype matching patterns and the name of the
// tag they are tested against. Compile once per run; patterns are immutable
// configuration, never re-parsed per read.
type Patterns struct {
	Tag string
	mat *regexp.Regexp
	pat *regexp.Regexp
}

// CompilePatterns builds case-insensitive matchers for the maternal and
// paternal tag values. tag must be a two-character SAM tag name; empty
// arguments fall back to the defaults.
func CompilePatterns(maternal, paternal, tag string) (Patterns, error) {
	if maternal == "" {
		maternal = DefaultMaternalPattern
	}
	if paternal == "" {
		paternal = DefaultPaternalPattern
	}
	if tag == "" {
		tag = DefaultOriginTag
	}
	if len(tag) != 2 {
		return Patterns{}, fmt.Errorf("origin tag must be 2 characters, got %q", tag)
	}
	mat, err := regexp.Compile("(?i)" + maternal)
	if err != nil {
		return Patterns{}, fmt.Errorf("invalid maternal pattern %q: %w", maternal, err)
	}
	pat, err := regexp.Compile("(?i)" + paternal)
	if err != nil {
		return Patterns{}, fmt.Errorf("invalid paternal pattern %q: %w", paternal, err)
	}
	return Patterns{Tag: tag, mat: mat, pat: pat}, nil
}

// Match classifies a raw tag value. A value matching both patterns is
// Ambiguous so that a sloppy pattern pair can never silently double-count.
func (pt Patterns) Match(value string) Label {
	m := pt.mat.MatchString(value)
	p := pt.pat.MatchString(value)
	switch {
	case m && p:
		return Ambiguous
	case m:
		return Maternal
	case p:
		return Paternal
	}
	return Ambiguous
}

// TagValue returns the read's origin tag value, or "" when the tag is absent.
// QueryTag errors on records without a parsed binary aux block, which
// includes valid tag-less reads, so any lookup failure falls back to the
// text Extra field rather than aborting.
func (pt Patterns) TagValue(r sam.Sam) string {
	query, found, err := sam.QueryTag(r, pt.Tag)
	if err == nil && found {
		value, ok := query.(string)
		if !ok {
			return fmt.Sprint(query)
		}
		return value
	}
	return textTagValue(r.Extra, pt.Tag)
}

// textTagValue scans a text-format Extra field (TAG:TYPE:VALUE, tab
// separated) for the named tag.
func textTagValue(extra, tag string) string {
	for _, field := range strings.Split(extra, "\t") {
		parts := strings.SplitN(field, ":", 3)
		if len(parts) == 3 && parts[0] == tag {
			return parts[2]
		}
	}
	return ""
}

// Filter holds the per-read quality gates applied before tag matching.
type Filter struct {
	MinMapQ  uint8
	KeepDups bool
}

// Classify maps one alignment to its parental origin. Quality and duplicate
// gates run first; a read passing them but carrying no tag, or a tag matching
// neither pattern, is Ambiguous. Pure function of its inputs.
func Classify(r sam.Sam, pt Patterns, f Filter) Label {
	if sam.IsUnmapped(r) || r.MapQ < f.MinMapQ {
		return Excluded
	}
	if !f.KeepDups && r.Flag&duplicateFlag != 0 {
		return Excluded
	}
	value := pt.TagValue(r)
	if value == "" {
		return Ambiguous
	}
	return pt.Match(value)
}
