package yarbs

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/laramiemckenna/YARBS/config"
	"github.com/spf13/cobra"
)

// StructureCmd runs structure from the command line
func StructureCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseStructureFlags(cmd)
	if err := Structure(flags, conf); err != nil {
		stderr.Fatalln(err)
	}
}

// StructureParams tunes gap and telomere detection
type StructureParams struct {
	// Motif is the telomere repeat searched for near sequence ends
	Motif string `json:"motif"`

	// MaxDistBetween is the largest distance between motif occurrences
	// within one cluster
	MaxDistBetween int `json:"maxDistBetween"`

	// MinSize is the smallest cluster span kept
	MinSize int `json:"minSize"`

	// MinDensity is the smallest fraction of a cluster the motif must
	// cover
	MinDensity float64 `json:"minDensity"`

	// DistToEnd is how far from each end of a sequence to search
	DistToEnd int `json:"distToEnd"`

	// MinLength is the shortest sequence analyzed at all
	MinLength int `json:"minLength"`

	// MinGapSize is the shortest N run reported as a gap
	MinGapSize int `json:"minGapSize"`
}

// structureParams pulls the analyzer's settings out of the app config
func structureParams(conf *config.Config) StructureParams {
	return StructureParams{
		Motif:          conf.Telomere.Motif,
		MaxDistBetween: conf.Telomere.MaxDistBetween,
		MinSize:        conf.Telomere.MinSize,
		MinDensity:     conf.Telomere.MinDensity,
		DistToEnd:      conf.Telomere.DistToEnd,
		MinLength:      conf.Structure.MinLength,
		MinGapSize:     conf.Structure.MinGapSize,
	}
}

// GapRegion is one qualifying run of Ns in a scaffold
type GapRegion struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Size  int `json:"size"`
}

// ContigSpan is a stretch of a scaffold between qualifying gaps
type ContigSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TelomereCluster is a run of telomere motif occurrences near one end
// of a scaffold
type TelomereCluster struct {
	// Start and End in absolute scaffold coordinates
	Start int `json:"start"`
	End   int `json:"end"`

	// Density is motif bases over cluster span, in (0, 1]
	Density float64 `json:"density"`

	// Location is "start" or "end", the window the cluster was found in
	Location string `json:"location"`

	// NumRepeats is the number of motif occurrences in the cluster
	NumRepeats int `json:"numRepeats"`
}

// ScaffoldStructure is the structural summary of one scaffold
type ScaffoldStructure struct {
	Name         string            `json:"name"`
	Length       int               `json:"length"`
	Contigs      []ContigSpan      `json:"contigs"`
	Gaps         []GapRegion       `json:"gaps"`
	Telomeres    []TelomereCluster `json:"telomeres"`
	NumContigs   int               `json:"numContigs"`
	NumGaps      int               `json:"numGaps"`
	NumTelomeres int               `json:"numTelomeres"`
}

// StructureReport is everything the structure command writes
type StructureReport struct {
	InputFile  string              `json:"inputFile"`
	Timestamp  string              `json:"timestamp"`
	Parameters StructureParams     `json:"parameters"`
	Scaffolds  []ScaffoldStructure `json:"scaffolds"`
}

// Structure summarizes the gaps and telomere clusters of every sequence
// in a FASTA file at or above the minimum length, writing JSON and text
// reports
func Structure(f *Flags, conf *config.Config) error {
	if err := validateConfig(conf); err != nil {
		return err
	}

	contigs, err := readFastaFile(f.in)
	if err != nil {
		return err
	}

	params := structureParams(conf)
	report := &StructureReport{
		InputFile:  f.in,
		Timestamp:  timestamp(),
		Parameters: params,
		Scaffolds:  []ScaffoldStructure{},
	}

	for _, c := range contigs {
		structure := analyzeStructure(c.ID, c.Seq, params)
		if structure == nil {
			continue
		}
		report.Scaffolds = append(report.Scaffolds, *structure)
	}

	if len(report.Scaffolds) == 0 {
		stderr.Printf("no sequences in %s meet the minimum length of %s bp\n", f.in, formatComma(params.MinLength))
		return nil
	}

	jsonFile := f.out + "_structure_report.json"
	if err := writeJSONFile(jsonFile, report); err != nil {
		return err
	}

	textFile := f.out + "_structure_report.txt"
	if err := report.writeText(textFile); err != nil {
		return err
	}

	stderr.Printf("wrote %s and %s\n", jsonFile, textFile)
	return nil
}

// analyzeStructure summarizes one sequence, nil when it is shorter than
// the minimum length. Short sequences are skipped outright rather than
// reported as empty.
func analyzeStructure(name, seq string, p StructureParams) *ScaffoldStructure {
	if len(seq) < p.MinLength {
		return nil
	}

	gaps := findGaps(seq, p.MinGapSize)
	contigs := contigSpans(len(seq), gaps)
	telomeres := findTelomeres(seq, p)

	return &ScaffoldStructure{
		Name:         name,
		Length:       len(seq),
		Contigs:      contigs,
		Gaps:         gaps,
		Telomeres:    telomeres,
		NumContigs:   len(contigs),
		NumGaps:      len(gaps),
		NumTelomeres: len(telomeres),
	}
}

// findGaps scans for runs of N (either case) and returns the runs at
// least minGapSize long. A run still open at the end of the sequence is
// flushed through the same size test.
func findGaps(seq string, minGapSize int) []GapRegion {
	var gaps []GapRegion

	inGap := false
	start := 0
	for i := 0; i < len(seq); i++ {
		isN := seq[i] == 'N' || seq[i] == 'n'
		if isN && !inGap {
			start = i
			inGap = true
		} else if !isN && inGap {
			if i-start >= minGapSize {
				gaps = append(gaps, GapRegion{Start: start, End: i, Size: i - start})
			}
			inGap = false
		}
	}
	if inGap && len(seq)-start >= minGapSize {
		gaps = append(gaps, GapRegion{Start: start, End: len(seq), Size: len(seq) - start})
	}

	return gaps
}

// contigSpans returns the regions between qualifying gaps. N runs too
// short to qualify do not break a contig, they stay inside it.
func contigSpans(length int, gaps []GapRegion) []ContigSpan {
	var contigs []ContigSpan

	prev := 0
	for _, gap := range gaps {
		if gap.Start > prev {
			contigs = append(contigs, ContigSpan{Start: prev, End: gap.Start})
		}
		prev = gap.End
	}
	if length > prev {
		contigs = append(contigs, ContigSpan{Start: prev, End: length})
	}

	return contigs
}

// findTelomeres searches the first and last DistToEnd bases of a
// sequence for clusters of the telomere motif. The two windows overlap
// on short sequences, which just means a cluster can be reported from
// both. Matching is exact and non-overlapping: each hit advances the
// scan by the motif length. A cluster breaks wherever the distance to
// the previous hit exceeds MaxDistBetween, and survives when its span
// reaches MinSize and the motif covers at least MinDensity of it.
// Coordinates are absolute.
func findTelomeres(seq string, p StructureParams) []TelomereCluster {
	motif := strings.ToUpper(p.Motif)
	motifLen := len(motif)
	seqLen := len(seq)

	startEnd := p.DistToEnd
	if startEnd > seqLen {
		startEnd = seqLen
	}
	endStart := seqLen - p.DistToEnd
	if endStart < 0 {
		endStart = 0
	}

	windows := []struct {
		start, end int
		location   string
	}{
		{0, startEnd, "start"},
		{endStart, seqLen, "end"},
	}

	var telomeres []TelomereCluster
	for _, w := range windows {
		region := strings.ToUpper(seq[w.start:w.end])
		if len(region) == 0 {
			continue
		}

		// non-overlapping motif hits, skipping ahead on each match
		var positions []int
		for pos := 0; pos+motifLen <= len(region); {
			if region[pos:pos+motifLen] == motif {
				positions = append(positions, pos)
				pos += motifLen
			} else {
				pos++
			}
		}
		if len(positions) == 0 {
			continue
		}

		var clusters [][]int
		current := []int{positions[0]}
		for _, pos := range positions[1:] {
			if pos-current[len(current)-1] <= p.MaxDistBetween {
				current = append(current, pos)
			} else {
				clusters = append(clusters, current)
				current = []int{pos}
			}
		}
		clusters = append(clusters, current)

		for _, cluster := range clusters {
			start := cluster[0]
			end := cluster[len(cluster)-1] + motifLen
			size := end - start
			density := float64(len(cluster)*motifLen) / float64(size)

			if size >= p.MinSize && density >= p.MinDensity {
				telomeres = append(telomeres, TelomereCluster{
					Start:      w.start + start,
					End:        w.start + end,
					Density:    density,
					Location:   w.location,
					NumRepeats: len(cluster),
				})
			}
		}
	}

	return telomeres
}

// writeText writes the structure report for the curator
func (r *StructureReport) writeText(path string) error {
	var b strings.Builder

	b.WriteString("SCAFFOLD STRUCTURE REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.Timestamp)
	fmt.Fprintf(&b, "Input file: %s\n", r.InputFile)
	fmt.Fprintf(&b, "Telomere motif: %s\n\n", r.Parameters.Motif)

	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintf(w, "scaffold\tlength\tcontigs\tgaps\ttelomeres\n")
	for _, s := range r.Scaffolds {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			s.Name, formatComma(s.Length), s.NumContigs, s.NumGaps, s.NumTelomeres)
	}
	w.Flush()

	for _, s := range r.Scaffolds {
		if len(s.Telomeres) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n%s telomeres:\n", s.Name)
		for _, t := range s.Telomeres {
			fmt.Fprintf(&b, "  %s: %s-%s, density %.2f (%d repeats)\n",
				t.Location, formatComma(t.Start), formatComma(t.End), t.Density, t.NumRepeats)
		}
	}

	if err := writeTextFile(path, b.String()); err != nil {
		return err
	}
	return nil
}
