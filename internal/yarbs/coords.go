package yarbs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Coord is one alignment row of a coordinates file. Query coordinates
// are display coordinates, projected onto the reference direction.
type Coord struct {
	// RefStart and RefEnd on the reference
	RefStart int
	RefEnd   int

	// QueryStart and QueryEnd in display space
	QueryStart int
	QueryEnd   int

	// Ref is the reference sequence name
	Ref string

	// Query is the contig name, from the enclosing section header
	Query string

	// Tag is the classification from the section header
	Tag string

	// AlignedOrientation is "+" or "-" when the file carries the
	// orientation columns, "" otherwise
	AlignedOrientation string

	// NeedsFlip is true when the row says the contig aligned reversed
	NeedsFlip bool

	// Identity percentage, 0 when the file predates the column
	Identity float64
}

// coordsHeader names the columns of a coordinates file, oldest first.
// Readers resolve columns by name from this header row so newer files
// can append columns without breaking older readers.
const coordsHeader = "ref_start,ref_end,query_start,query_end,ref,original_orientation,aligned_orientation,needs_flip,identity"

// coordsTagOrder fixes the section order within each query
var coordsTagOrder = []string{TagUnique, TagUniqueShort, TagRepetitive}

// writeCoords writes classified alignments as a coordinates file:
// a header row, then one "!query!tag" section per query and tag with
// its rows beneath it. Queries are written in sorted order so the
// output does not depend on worker scheduling.
func writeCoords(path string, records []AlignmentRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, coordsHeader)

	byQuery := make(map[string][]AlignmentRecord)
	for _, rec := range records {
		byQuery[rec.Query] = append(byQuery[rec.Query], rec)
	}

	for _, query := range sortedKeys(byQuery) {
		for _, tag := range coordsTagOrder {
			wrote := false
			for _, rec := range byQuery[query] {
				if rec.Tag != tag {
					continue
				}
				if !wrote {
					fmt.Fprintf(w, "!%s!%s\n", query, tag)
					wrote = true
				}
				fmt.Fprintf(w, "%d,%d,%d,%d,%s,%s,%s,%t,%.2f\n",
					rec.RefStart, rec.RefEnd,
					rec.DisplayQueryStart, rec.DisplayQueryEnd,
					rec.Ref,
					rec.OriginalOrientation, rec.AlignedOrientation, rec.NeedsFlip,
					rec.Identity)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// overviewLimit caps the #overview section of the index file
const overviewLimit = 1000

// writeCoordsIndex writes the .coords.idx summary next to a coordinates
// file: per-reference and per-query rollups plus an overview of the
// alignments reaching furthest into each reference, for viewers that
// want a sketch without loading the whole coordinates file.
func writeCoordsIndex(path string, records []AlignmentRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	byRef := make(map[string][]AlignmentRecord)
	byQuery := make(map[string][]AlignmentRecord)
	for _, rec := range records {
		byRef[rec.Ref] = append(byRef[rec.Ref], rec)
		byQuery[rec.Query] = append(byQuery[rec.Query], rec)
	}

	w := bufio.NewWriter(file)

	fmt.Fprintln(w, "#ref")
	fmt.Fprintln(w, "ref,ref_length,matching_queries")
	for _, ref := range sortedKeys(byRef) {
		recs := byRef[ref]
		queries := make(map[string]bool)
		for _, rec := range recs {
			queries[rec.Query] = true
		}
		fmt.Fprintf(w, "%s,%d,%s\n", ref, recs[0].RefLength, strings.Join(sortedSet(queries), "~"))
	}

	fmt.Fprintln(w, "#query")
	fmt.Fprintln(w, "query,query_length,orientation,unique_alignments,unique_short_alignments,repetitive_alignments,matching_refs")
	for _, query := range sortedKeys(byQuery) {
		recs := byQuery[query]

		refs := make(map[string]bool)
		plus, tagCounts := 0, make(map[string]int)
		for _, rec := range recs {
			refs[rec.Ref] = true
			if rec.Strand == "+" {
				plus++
			}
			tagCounts[rec.Tag]++
		}

		// majority strand, ties go to "+"
		orientation := "+"
		if plus*2 < len(recs) {
			orientation = "-"
		}

		fmt.Fprintf(w, "%s,%d,%s,%d,%d,%d,%s\n",
			query, recs[0].QueryLength, orientation,
			tagCounts[TagUnique], tagCounts[TagUniqueShort], tagCounts[TagRepetitive],
			strings.Join(sortedSet(refs), "~"))
	}

	fmt.Fprintln(w, "#overview")
	fmt.Fprintln(w, "ref_start,ref_end,query_start,query_end,ref,query,tag,identity")
	top := make([]AlignmentRecord, len(records))
	copy(top, records)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].RefEnd > top[j].RefEnd
	})
	if len(top) > overviewLimit {
		top = top[:overviewLimit]
	}
	for _, rec := range top {
		fmt.Fprintf(w, "%d,%d,%d,%d,%s,%s,%s,%.2f\n",
			rec.RefStart, rec.RefEnd,
			rec.DisplayQueryStart, rec.DisplayQueryEnd,
			rec.Ref, rec.Query, rec.Tag, rec.Identity)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// defaultCoordsSchema resolves the five columns every coordinates file
// has carried since the first version, for files without a header row
var defaultCoordsSchema = map[string]int{
	"ref_start":   0,
	"ref_end":     1,
	"query_start": 2,
	"query_end":   3,
	"ref":         4,
}

// readCoords parses a coordinates file. Rows belong to the most recent
// "!query!tag" section, a section header without a tag defaults to
// unique. Columns are resolved by name from the header row when there
// is one, so unknown extra columns pass through unnoticed.
func readCoords(path string) ([]Coord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer file.Close()

	schema := defaultCoordsSchema

	var coords []Coord
	query, tag := "", ""
	line := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line++
		row := strings.TrimSpace(scanner.Text())

		switch {
		case row == "":
			continue
		case strings.HasPrefix(row, "!"):
			parts := strings.Split(row[1:], "!")
			query = parts[0]
			tag = TagUnique
			if len(parts) > 1 && parts[1] != "" {
				tag = parts[1]
			}
			continue
		case strings.HasPrefix(row, "ref_start"):
			schema = make(map[string]int)
			for i, name := range strings.Split(row, ",") {
				schema[strings.TrimSpace(name)] = i
			}
			continue
		}

		if query == "" {
			return nil, &MalformedInputError{Path: path, Line: line, Reason: "alignment row before any !query! section"}
		}

		fields := strings.Split(row, ",")
		p := &coordParser{path: path, line: line, schema: schema, fields: fields}
		c := Coord{
			RefStart:   p.int("ref_start"),
			RefEnd:     p.int("ref_end"),
			QueryStart: p.int("query_start"),
			QueryEnd:   p.int("query_end"),
			Ref:        p.string("ref"),
			Query:      query,
			Tag:        tag,
		}

		// newer columns, opaque to older readers
		if v, ok := p.lookup("aligned_orientation"); ok {
			c.AlignedOrientation = v
		}
		if v, ok := p.lookup("needs_flip"); ok {
			c.NeedsFlip = strings.EqualFold(v, "true")
		}
		if v, ok := p.lookup("identity"); ok {
			c.Identity = p.float("identity", v)
		}

		if p.err != nil {
			return nil, p.err
		}
		coords = append(coords, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	return coords, nil
}

// coordParser resolves named columns of one coordinates row
type coordParser struct {
	path   string
	line   int
	schema map[string]int
	fields []string
	err    error
}

func (p *coordParser) lookup(name string) (string, bool) {
	i, ok := p.schema[name]
	if !ok || i >= len(p.fields) {
		return "", false
	}
	return strings.TrimSpace(p.fields[i]), true
}

func (p *coordParser) string(name string) string {
	v, ok := p.lookup(name)
	if !ok && p.err == nil {
		p.err = &MalformedInputError{Path: p.path, Line: p.line, Reason: fmt.Sprintf("missing column %s", name)}
	}
	return v
}

func (p *coordParser) int(name string) int {
	v := p.string(name)
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = &MalformedInputError{Path: p.path, Line: p.line, Reason: fmt.Sprintf("invalid %s %q", name, v)}
		return 0
	}
	return n
}

func (p *coordParser) float(name, v string) float64 {
	if p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = &MalformedInputError{Path: p.path, Line: p.line, Reason: fmt.Sprintf("invalid %s %q", name, v)}
		return 0
	}
	return f
}

// sortedKeys returns the queries or refs of a grouping in sorted order
func sortedKeys(m map[string][]AlignmentRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedSet returns the members of a string set in sorted order
func sortedSet(m map[string]bool) []string {
	members := make([]string, 0, len(m))
	for member := range m {
		members = append(members, member)
	}
	sort.Strings(members)
	return members
}
