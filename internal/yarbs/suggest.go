package yarbs

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/laramiemckenna/YARBS/config"
	"github.com/spf13/cobra"
)

// SuggestCmd runs suggest from the command line
func SuggestCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseSuggestFlags(cmd)
	if err := Suggest(flags, conf); err != nil {
		stderr.Fatalln(err)
	}
}

// contigPlacement is one contig's suggested standing on a reference
type contigPlacement struct {
	// Query is the input contig
	Query string

	// Position is the mean of the contig's unique alignment midpoints
	// on the reference
	Position float64

	// Orientation is "+" or "-" from the aligned-base strand vote
	Orientation string

	// Alignments is how many unique alignments back the suggestion
	Alignments int
}

// Suggest derives a contig order and orientation per reference from the
// unique alignments in a coordinates file. The table prints to stdout.
// With an output prefix it also writes a skeleton modifications file
// for the curator to start from: one chromosome group per reference in
// suggested order, plus an inversion for every reverse-voted contig.
func Suggest(f *Flags, conf *config.Config) error {
	coords, err := readCoords(f.coords)
	if err != nil {
		return err
	}

	placements := placeContigs(coords)
	if len(placements) == 0 {
		stderr.Printf("no unique alignments in %s, nothing to suggest\n", f.coords)
		return nil
	}

	refs := make([]string, 0, len(placements))
	for ref := range placements {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintf(w, "ref\tcontig\tposition\torientation\talignments\n")
	for _, ref := range refs {
		for _, p := range placements[ref] {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				ref, p.Query, formatComma(int(math.Round(p.Position))), p.Orientation, p.Alignments)
		}
	}
	w.Flush()

	if f.out == "" {
		return nil
	}

	mods := skeletonModifications(refs, placements)
	modsFile := f.out + "_modifications.json"
	if err := writeJSONFile(modsFile, mods); err != nil {
		return err
	}

	stderr.Printf("wrote %s\n", modsFile)
	return nil
}

// placeContigs reduces the unique alignments of each reference to one
// placement per contig. Position is the mean of the alignment reference
// midpoints. Orientation is a vote weighted by aligned bases: rows that
// carry an aligned_orientation column vote with it, rows from older
// files without the column vote forward when their query coordinates
// are ascending. Ties go to "+". Contigs sort by position within each
// reference, first appearance breaking ties.
func placeContigs(coords []Coord) map[string][]contigPlacement {
	type tally struct {
		midpointSum float64
		count       int
		forwardBP   int
		reverseBP   int
	}

	tallies := make(map[string]map[string]*tally)
	order := make(map[string][]string)

	for _, c := range coords {
		if c.Tag != TagUnique {
			continue
		}

		byQuery, ok := tallies[c.Ref]
		if !ok {
			byQuery = make(map[string]*tally)
			tallies[c.Ref] = byQuery
		}

		t, ok := byQuery[c.Query]
		if !ok {
			t = &tally{}
			byQuery[c.Query] = t
			order[c.Ref] = append(order[c.Ref], c.Query)
		}

		t.midpointSum += float64(c.RefStart+c.RefEnd) / 2
		t.count++

		switch {
		case c.AlignedOrientation == "+":
			t.forwardBP += c.QueryEnd - c.QueryStart
		case c.AlignedOrientation == "-":
			t.reverseBP += c.QueryEnd - c.QueryStart
		case c.QueryStart < c.QueryEnd:
			t.forwardBP += c.QueryEnd - c.QueryStart
		default:
			t.reverseBP += c.QueryStart - c.QueryEnd
		}
	}

	placements := make(map[string][]contigPlacement)
	for ref, byQuery := range tallies {
		ps := make([]contigPlacement, 0, len(byQuery))
		for _, query := range order[ref] {
			t := byQuery[query]

			orientation := "+"
			if t.reverseBP > t.forwardBP {
				orientation = "-"
			}

			ps = append(ps, contigPlacement{
				Query:       query,
				Position:    t.midpointSum / float64(t.count),
				Orientation: orientation,
				Alignments:  t.count,
			})
		}

		sort.SliceStable(ps, func(i, j int) bool {
			return ps[i].Position < ps[j].Position
		})
		placements[ref] = ps
	}

	return placements
}

// skeletonModifications builds a starting modifications file from the
// placements: one chromosome group per reference with the contigs in
// suggested order, and an invert entry for each reverse-voted contig
func skeletonModifications(refs []string, placements map[string][]contigPlacement) *Modifications {
	mods := &Modifications{
		Modifications:    []Modification{},
		ChromosomeGroups: make(map[string]ChromosomeGroup),
	}

	for _, ref := range refs {
		ps := placements[ref]

		contigs := make([]string, len(ps))
		ranks := make([]int, len(ps))
		for i, p := range ps {
			contigs[i] = p.Query
			ranks[i] = i

			if p.Orientation == "-" {
				mods.Modifications = append(mods.Modifications, Modification{
					Type:  modInvert,
					Query: p.Query,
				})
			}
		}

		mods.ChromosomeGroups[ref] = ChromosomeGroup{
			Contigs:   contigs,
			Order:     ranks,
			CreatedOn: ref,
		}
	}

	return mods
}
