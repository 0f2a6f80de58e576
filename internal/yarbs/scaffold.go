package yarbs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/laramiemckenna/YARBS/config"
	"github.com/spf13/cobra"
)

// ScaffoldCmd runs scaffold from the command line
func ScaffoldCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseScaffoldFlags(cmd)
	if err := Scaffold(flags, conf); err != nil {
		stderr.Fatalln(err)
	}
}

// Scaffold applies a curation session's modifications to an assembly
// and writes the scaffolded FASTA plus JSON and text reports. The whole
// result is assembled in memory before the first file is created, a
// failure part way through leaves nothing half written behind.
func Scaffold(f *Flags, conf *config.Config) error {
	if err := validateConfig(conf); err != nil {
		return err
	}

	contigs, err := readFastaFile(f.query)
	if err != nil {
		return err
	}
	stderr.Printf("loaded %d sequences from %s\n", len(contigs), f.query)

	mods, err := readModifications(f.modifications)
	if err != nil {
		return err
	}
	stderr.Printf("loaded %d modifications and %d chromosome groups from %s\n",
		len(mods.Modifications), len(mods.ChromosomeGroups), f.modifications)

	report := newReport(f.query)

	assignments, warnings := chromosomeAssignments(mods)
	for _, warning := range warnings {
		report.addWarning(warning)
	}
	if len(assignments) == 0 {
		stderr.Println("no chromosome groups found in modifications, nothing to scaffold")
		return nil
	}

	s := newScaffolder(contigs, mods, conf.GapLength, report)
	output := s.build(assignments)
	output = append(output, s.unincorporated(assignments)...)

	report.finalize(contigs, s.gap)

	fastaFile := f.out + "_scaffolded.fasta"
	if err := writeFasta(fastaFile, output); err != nil {
		return err
	}

	jsonFile := f.out + "_scaffolding_report.json"
	if err := report.writeJSON(jsonFile); err != nil {
		return err
	}

	textFile := f.out + "_scaffolding_report.txt"
	if err := report.writeText(textFile); err != nil {
		return err
	}

	stderr.Printf("wrote %s, %s and %s\n", fastaFile, jsonFile, textFile)

	if f.structure {
		return Structure(&Flags{in: fastaFile, out: f.out}, conf)
	}
	return nil
}

// scaffolder stitches an assembly's contigs into scaffolds according
// to a curation session's edits
type scaffolder struct {
	// contigs in input order, the order ties are resolved by
	contigs []*Contig

	// byID resolves a contig name from an assignment or edit
	byID map[string]*Contig

	// mods is the curation session's edit list
	mods *Modifications

	// gap is the filler inserted between joined fragments
	gap string

	// report collects audits and warnings as edits are applied
	report *Report
}

func newScaffolder(contigs []*Contig, mods *Modifications, gapLength int, report *Report) *scaffolder {
	byID := make(map[string]*Contig, len(contigs))
	for _, c := range contigs {
		byID[c.ID] = c
	}

	return &scaffolder{
		contigs: contigs,
		byID:    byID,
		mods:    mods,
		gap:     strings.Repeat("N", gapLength),
		report:  report,
	}
}

// applyBreaks splits a contig at its recorded break positions. Positions
// are in the contig's original coordinates. Cuts land strictly inside
// the sequence: positions at or past either end, and positions at or
// before an earlier cut, fall out as no-ops.
func (s *scaffolder) applyBreaks(name, seq string) []string {
	positions := s.mods.breaksFor(name)
	if len(positions) == 0 {
		return []string{seq}
	}

	var fragments []string
	last := 0
	for _, pos := range positions {
		if pos > last && pos < len(seq) {
			fragments = append(fragments, seq[last:pos])
			last = pos
		}
	}
	if last < len(seq) {
		fragments = append(fragments, seq[last:])
	}

	s.report.addBreakAudit(name, positions, len(fragments))
	return fragments
}

// applyInversion reverse complements a fragment when an inversion is
// recorded for its source contig. Inversions flip whole fragments only,
// a curation inversion changes a contig's orientation rather than
// excising a region.
func (s *scaffolder) applyInversion(name, fragment string) string {
	if !s.mods.invertsQuery(name) {
		return fragment
	}

	inverted := reverseComplement(fragment)
	s.report.addInvertAudit(name, len(fragment), len(inverted))
	return inverted
}

// build stitches each assignment's contigs into one scaffold. Fragments
// of a contig and neighboring contigs are separated by the gap filler,
// with no filler after the last. Contigs named by an assignment but
// absent from the assembly are skipped with a warning and do not count
// toward the scaffold's statistics.
func (s *scaffolder) build(assignments []ChromosomeAssignment) []*Contig {
	var scaffolds []*Contig

	for _, a := range assignments {
		var parts []string
		processed := []string{}

		for _, name := range a.Contigs {
			contig, ok := s.byID[name]
			if !ok {
				s.report.addWarning((&MissingReferenceError{Kind: "contig", ID: name}).Error())
				continue
			}

			fragments := s.applyBreaks(name, contig.Seq)
			for i, fragment := range fragments {
				parts = append(parts, s.applyInversion(name, fragment))
				if i < len(fragments)-1 {
					parts = append(parts, s.gap)
				}
			}

			parts = append(parts, s.gap)
			processed = append(processed, name)
		}

		// drop the trailing gap
		if len(parts) > 0 && parts[len(parts)-1] == s.gap {
			parts = parts[:len(parts)-1]
		}

		seq := strings.Join(parts, "")

		gaps := 0
		for _, part := range parts {
			if part == s.gap {
				gaps++
			}
		}

		nContent := 0.0
		if len(seq) > 0 {
			nContent = float64(strings.Count(seq, "N")) / float64(len(seq)) * 100
		}

		info := ScaffoldInfo{
			Name:       a.Name,
			Length:     len(seq),
			NumContigs: len(processed),
			Contigs:    processed,
			NumGaps:    gaps,
			NContent:   nContent,
			Type:       "chromosome",
		}
		desc := fmt.Sprintf("Scaffolded chromosome | %s bp | %d contigs", formatComma(len(seq)), len(processed))
		if a.IsSubchromosome {
			info.Type = "sub-chromosome"
			info.Reference = a.Reference
			desc = fmt.Sprintf("Sub-chromosome of %s | %s bp | %d contigs", a.Reference, formatComma(len(seq)), len(processed))
		}
		s.report.ScaffoldsCreated = append(s.report.ScaffoldsCreated, info)

		stderr.Printf("built scaffold %s: %s bp from %d contigs\n", a.Name, formatComma(len(seq)), len(processed))

		scaffolds = append(scaffolds, &Contig{ID: a.Name, Desc: desc, Seq: seq})
	}

	return scaffolds
}

// unincorporated returns the contigs no assignment referenced, longest
// first, renamed unincorporated_scaffold_<n>. Inversions recorded
// against a contig's name (the contigName key, not query) are applied
// on the way out.
func (s *scaffolder) unincorporated(assignments []ChromosomeAssignment) []*Contig {
	assigned := make(map[string]bool)
	for _, a := range assignments {
		for _, name := range a.Contigs {
			assigned[name] = true
		}
	}

	var left []*Contig
	for _, c := range s.contigs {
		if !assigned[c.ID] {
			left = append(left, c)
		}
	}
	sort.SliceStable(left, func(i, j int) bool {
		return len(left[i].Seq) > len(left[j].Seq)
	})

	var out []*Contig
	for i, c := range left {
		seq := c.Seq
		orientation := "original orientation"
		if s.mods.invertsContig(c.ID) {
			seq = reverseComplement(seq)
			orientation = "reverse complement"
		}

		out = append(out, &Contig{
			ID:   fmt.Sprintf("unincorporated_scaffold_%d", i+1),
			Desc: fmt.Sprintf("Unincorporated | %s bp | %s | source: %s", formatComma(len(seq)), orientation, c.ID),
			Seq:  seq,
		})
	}

	if len(out) > 0 {
		stderr.Printf("carrying %d unincorporated contigs through\n", len(out))
	}
	return out
}
