package yarbs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ModificationAudit is one edit as it was actually applied during a
// scaffold build, kept so a session can be reconstructed afterwards
type ModificationAudit struct {
	// Type is "break" or "invert"
	Type string `json:"type"`

	// Sequence the edit was applied to
	Sequence string `json:"sequence"`

	// Positions of applied breaks, ascending. Break audits only
	Positions []int `json:"positions,omitempty"`

	// FragmentsCreated by the breaks. Break audits only
	FragmentsCreated int `json:"fragmentsCreated,omitempty"`

	// OriginalLength and InvertedLength of the flipped fragment.
	// Inversion audits only
	OriginalLength int `json:"originalLength,omitempty"`
	InvertedLength int `json:"invertedLength,omitempty"`
}

// ScaffoldInfo describes one sequence written to the scaffolded FASTA
type ScaffoldInfo struct {
	// Name of the scaffold
	Name string `json:"name"`

	// Length in bases, gaps included
	Length int `json:"length"`

	// NumContigs stitched into the scaffold
	NumContigs int `json:"numContigs"`

	// Contigs stitched in, in order
	Contigs []string `json:"contigs"`

	// NumGaps is the number of gap fillers inserted
	NumGaps int `json:"numGaps"`

	// NContent is the percentage of N bases in the final sequence
	NContent float64 `json:"nContent"`

	// Type is "sub-chromosome" for scaffolds built from curated groups,
	// "chromosome" otherwise
	Type string `json:"type"`

	// Reference the group was curated against, sub-chromosomes only
	Reference string `json:"reference,omitempty"`
}

// ScaffoldStats summarizes a whole scaffolding run
type ScaffoldStats struct {
	InputContigs         int    `json:"inputContigs"`
	TotalInputLength     int    `json:"totalInputLength"`
	ScaffoldsCreated     int    `json:"scaffoldsCreated"`
	TotalScaffoldLength  int    `json:"totalScaffoldLength"`
	ModificationsApplied int    `json:"modificationsApplied"`
	GapSequenceUsed      string `json:"gapSequenceUsed"`
	GapLength            int    `json:"gapLength"`
}

// Report collects everything a scaffolding run did. It is written twice,
// as JSON for machines and as text for the curator.
type Report struct {
	// InputFile is the assembly FASTA that was scaffolded
	InputFile string `json:"inputFile"`

	// Timestamp of the run
	Timestamp string `json:"timestamp"`

	// ModificationsApplied in application order
	ModificationsApplied []ModificationAudit `json:"modificationsApplied"`

	// ScaffoldsCreated in output order
	ScaffoldsCreated []ScaffoldInfo `json:"scaffoldsCreated"`

	// Statistics over the whole run
	Statistics ScaffoldStats `json:"statistics"`

	// Warnings raised along the way, ex: contigs named in an edit that
	// are not in the assembly
	Warnings []string `json:"warnings,omitempty"`
}

// newReport starts a report for a scaffolding run
func newReport(inputFile string) *Report {
	return &Report{
		InputFile:            inputFile,
		Timestamp:            timestamp(),
		ModificationsApplied: []ModificationAudit{},
		ScaffoldsCreated:     []ScaffoldInfo{},
	}
}

// timestamp renders the current time, using same format as log.Println https://golang.org/pkg/log/#Println
func timestamp() string {
	t := time.Now()
	return fmt.Sprintf(
		"%d/%02d/%02d %02d:%02d:%02d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
	)
}

// addBreakAudit records applied breaks on a contig
func (r *Report) addBreakAudit(sequence string, positions []int, fragments int) {
	r.ModificationsApplied = append(r.ModificationsApplied, ModificationAudit{
		Type:             modBreak,
		Sequence:         sequence,
		Positions:        positions,
		FragmentsCreated: fragments,
	})
}

// addInvertAudit records an applied inversion on a fragment
func (r *Report) addInvertAudit(sequence string, originalLength, invertedLength int) {
	r.ModificationsApplied = append(r.ModificationsApplied, ModificationAudit{
		Type:           modInvert,
		Sequence:       sequence,
		OriginalLength: originalLength,
		InvertedLength: invertedLength,
	})
}

// addWarning records a non-fatal problem for the report
func (r *Report) addWarning(warning string) {
	stderr.Printf("warning: %s\n", warning)
	r.Warnings = append(r.Warnings, warning)
}

// finalize fills the report's summary statistics
func (r *Report) finalize(contigs []*Contig, gap string) {
	totalInput := 0
	for _, c := range contigs {
		totalInput += len(c.Seq)
	}

	totalScaffold := 0
	for _, s := range r.ScaffoldsCreated {
		totalScaffold += s.Length
	}

	r.Statistics = ScaffoldStats{
		InputContigs:         len(contigs),
		TotalInputLength:     totalInput,
		ScaffoldsCreated:     len(r.ScaffoldsCreated),
		TotalScaffoldLength:  totalScaffold,
		ModificationsApplied: len(r.ModificationsApplied),
		GapSequenceUsed:      gap,
		GapLength:            len(gap),
	}
}

// writeJSON writes the report for machine consumption
func (r *Report) writeJSON(path string) error {
	return writeJSONFile(path, r)
}

// writeText writes the report for the curator
func (r *Report) writeText(path string) error {
	var b strings.Builder

	b.WriteString("GENOME SCAFFOLDING REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.Timestamp)
	fmt.Fprintf(&b, "Input file: %s\n\n", r.InputFile)

	b.WriteString("SUMMARY STATISTICS\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "Input contigs: %d\n", r.Statistics.InputContigs)
	fmt.Fprintf(&b, "Total input length: %s bp\n", formatComma(r.Statistics.TotalInputLength))
	fmt.Fprintf(&b, "Scaffolds created: %d\n", r.Statistics.ScaffoldsCreated)
	fmt.Fprintf(&b, "Total scaffold length: %s bp\n", formatComma(r.Statistics.TotalScaffoldLength))
	fmt.Fprintf(&b, "Modifications applied: %d\n", r.Statistics.ModificationsApplied)
	fmt.Fprintf(&b, "Gap sequence: %d Ns\n\n", r.Statistics.GapLength)

	b.WriteString("SCAFFOLDS CREATED\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")

	var chromosomes, subchromosomes []ScaffoldInfo
	for _, s := range r.ScaffoldsCreated {
		if s.Type == "sub-chromosome" {
			subchromosomes = append(subchromosomes, s)
		} else {
			chromosomes = append(chromosomes, s)
		}
	}

	if len(chromosomes) > 0 {
		b.WriteString("Chromosomes:\n")
		for _, s := range chromosomes {
			fmt.Fprintf(&b, "  %s: %s bp (%d contigs, %d gaps, %.1f%% N content)\n",
				s.Name, formatComma(s.Length), s.NumContigs, s.NumGaps, s.NContent)
		}
		b.WriteString("\n")
	}

	if len(subchromosomes) > 0 {
		b.WriteString("Sub-chromosomes (polyploid copies):\n")

		byRef := make(map[string][]ScaffoldInfo)
		for _, s := range subchromosomes {
			ref := s.Reference
			if ref == "" {
				ref = "unknown"
			}
			byRef[ref] = append(byRef[ref], s)
		}

		var refs []string
		for ref := range byRef {
			refs = append(refs, ref)
		}
		sort.Strings(refs)

		for _, ref := range refs {
			fmt.Fprintf(&b, "\n  From %s:\n", ref)
			for _, s := range byRef[ref] {
				fmt.Fprintf(&b, "    %s: %s bp (%d contigs, %d gaps, %.1f%% N content)\n",
					s.Name, formatComma(s.Length), s.NumContigs, s.NumGaps, s.NContent)

				contigs := strings.Join(s.Contigs, ", ")
				if len(s.Contigs) > 5 {
					contigs = strings.Join(s.Contigs[:5], ", ")
					contigs += fmt.Sprintf(" ... and %d more", len(s.Contigs)-5)
				}
				fmt.Fprintf(&b, "      Contigs: %s\n", contigs)
			}
		}
		b.WriteString("\n")
	}

	if len(r.ModificationsApplied) > 0 {
		b.WriteString("\nMODIFICATIONS APPLIED\n")
		b.WriteString(strings.Repeat("-", 20) + "\n")
		for _, mod := range r.ModificationsApplied {
			switch mod.Type {
			case modBreak:
				fmt.Fprintf(&b, "  Break %s at positions %v (created %d fragments)\n",
					mod.Sequence, mod.Positions, mod.FragmentsCreated)
			case modInvert:
				fmt.Fprintf(&b, "  Invert %s (%s bp)\n", mod.Sequence, formatComma(mod.OriginalLength))
			}
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\nWARNINGS\n")
		b.WriteString(strings.Repeat("-", 20) + "\n")
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "  %s\n", warning)
		}
	}

	if err := writeTextFile(path, b.String()); err != nil {
		return err
	}
	return nil
}

// writeTextFile writes a rendered report to path
func writeTextFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// writeJSONFile marshals v with indentation and writes it to path
func writeJSONFile(path string, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %v", path, err)
	}

	if err := os.WriteFile(path, output, 0666); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// formatComma renders n with thousands separators, ex: 1,234,567
func formatComma(n int) string {
	if n < 0 {
		return "-" + formatComma(-n)
	}

	s := strconv.Itoa(n)
	var out strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(digit)
	}
	return out.String()
}
