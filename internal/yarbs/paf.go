package yarbs

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// AlignmentRecord is one normalized minimap2 alignment block
type AlignmentRecord struct {
	// Query is the contig name from the assembly being scaffolded
	Query string

	// QueryLength is the full length of the query contig
	QueryLength int

	// QueryStart and QueryEnd are on the original query strand, start < end
	QueryStart int
	QueryEnd   int

	// Strand is "+" or "-"
	Strand string

	// Ref is the reference sequence name
	Ref string

	// RefLength is the full length of the reference sequence
	RefLength int

	// RefStart and RefEnd are on the reference, start < end
	RefStart int
	RefEnd   int

	// Matches is the number of matching bases in the alignment
	Matches int

	// AlignmentLength is the number of alignment columns
	AlignmentLength int

	// MappingQuality from minimap2, 0-60
	MappingQuality int

	// Identity is Matches over AlignmentLength as a percentage,
	// rounded to two decimals
	Identity float64

	// OriginalOrientation is the orientation of the stored sequence,
	// always "+": sequences are kept as uploaded
	OriginalOrientation string

	// AlignedOrientation is the strand the query aligned on
	AlignedOrientation string

	// NeedsFlip is true when the query aligned on the minus strand and
	// would have to be reverse complemented to match the reference
	NeedsFlip bool

	// DisplayQueryStart and DisplayQueryEnd are the query coordinates
	// projected onto the reference direction. For plus strand alignments
	// they equal QueryStart and QueryEnd, for minus strand they count
	// back from the end of the query
	DisplayQueryStart int
	DisplayQueryEnd   int

	// EditDistance is the NM:i tag, -1 when minimap2 did not report one
	EditDistance int

	// DPScore is the ms:i tag, -1 when minimap2 did not report one
	DPScore int

	// Tag is one of TagUnique, TagUniqueShort or TagRepetitive,
	// "" before classification
	Tag string

	// UniqueContent is the number of query bases of this alignment
	// covered by no other alignment of the same query, 0 before
	// classification
	UniqueContent int

	// PassesFilter is true for alignments tagged TagUnique
	PassesFilter bool
}

// pafParser accumulates the first field error of a PAF row
type pafParser struct {
	path string
	line int
	err  error
}

func (p *pafParser) int(name, value string) int {
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.err = &MalformedInputError{Path: p.path, Line: p.line, Reason: fmt.Sprintf("invalid %s %q", name, value)}
		return 0
	}
	return n
}

func (p *pafParser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = &MalformedInputError{Path: p.path, Line: p.line, Reason: fmt.Sprintf(format, args...)}
	}
}

// parsePAFFile reads and normalizes a minimap2 PAF file
func parsePAFFile(path string) ([]AlignmentRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer file.Close()

	return parsePAF(file, path)
}

// parsePAF normalizes PAF rows from r. Every row becomes one
// AlignmentRecord, truncated or unparseable rows are fatal
func parsePAF(r io.Reader, path string) ([]AlignmentRecord, error) {
	scanner := bufio.NewScanner(r)
	// rows carry cs:Z tags that grow with the alignment, chromosome
	// scale alignments blow well past the default token size
	scanner.Buffer(make([]byte, 1024*1024), 1<<30)

	var records []AlignmentRecord
	line := 0
	for scanner.Scan() {
		line++
		row := strings.TrimRight(scanner.Text(), "\r\n")
		if row == "" {
			continue
		}

		fields := strings.Split(row, "\t")
		p := &pafParser{path: path, line: line}
		if len(fields) < 12 {
			p.fail("expected 12 fields, got %d", len(fields))
			return nil, p.err
		}

		rec := AlignmentRecord{
			Query:               fields[0],
			QueryLength:         p.int("query_length", fields[1]),
			QueryStart:          p.int("query_start", fields[2]),
			QueryEnd:            p.int("query_end", fields[3]),
			Strand:              fields[4],
			Ref:                 fields[5],
			RefLength:           p.int("ref_length", fields[6]),
			RefStart:            p.int("ref_start", fields[7]),
			RefEnd:              p.int("ref_end", fields[8]),
			Matches:             p.int("matches", fields[9]),
			AlignmentLength:     p.int("alignment_length", fields[10]),
			MappingQuality:      p.int("mapping_quality", fields[11]),
			OriginalOrientation: "+",
			EditDistance:        -1,
			DPScore:             -1,
		}

		switch {
		case rec.Strand != "+" && rec.Strand != "-":
			p.fail("invalid strand %q", rec.Strand)
		case rec.AlignmentLength < 1:
			p.fail("alignment length must be positive, got %d", rec.AlignmentLength)
		case rec.QueryStart >= rec.QueryEnd:
			p.fail("query start %d is not before query end %d", rec.QueryStart, rec.QueryEnd)
		case rec.RefStart >= rec.RefEnd:
			p.fail("ref start %d is not before ref end %d", rec.RefStart, rec.RefEnd)
		}
		if p.err != nil {
			return nil, p.err
		}

		rec.Identity = math.Round(float64(rec.Matches)/float64(rec.AlignmentLength)*100*100) / 100
		rec.AlignedOrientation = rec.Strand
		rec.NeedsFlip = rec.Strand == "-"

		// query coordinates shown to the curator follow the reference
		// direction, so minus strand alignments count from the far end
		if rec.NeedsFlip {
			rec.DisplayQueryStart = rec.QueryLength - rec.QueryEnd
			rec.DisplayQueryEnd = rec.QueryLength - rec.QueryStart
		} else {
			rec.DisplayQueryStart = rec.QueryStart
			rec.DisplayQueryEnd = rec.QueryEnd
		}

		for _, tag := range fields[12:] {
			switch {
			case strings.HasPrefix(tag, "NM:i:"):
				rec.EditDistance = p.int("NM tag", tag[len("NM:i:"):])
			case strings.HasPrefix(tag, "ms:i:"):
				rec.DPScore = p.int("ms tag", tag[len("ms:i:"):])
			}
		}
		if p.err != nil {
			return nil, p.err
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	return records, nil
}
