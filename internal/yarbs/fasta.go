package yarbs

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Contig is a single sequence from an assembly FASTA file
type Contig struct {
	// ID is the sequence name, the header up to the first whitespace
	ID string

	// Desc is the rest of the header line, "" if there was none
	Desc string

	// Seq is the sequence itself, case preserved
	Seq string
}

// unwantedChars matches everything that is not a sequence letter.
// Ambiguity codes and soft-masked lowercase have to survive parsing,
// assembly FASTAs lean on both, so only strip digits and whitespace.
var unwantedChars = regexp.MustCompile(`[^A-Za-z]`)

// readFastaFile reads and parses an assembly FASTA file
func readFastaFile(path string) ([]*Contig, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	return readFasta(path, string(contents))
}

// readFasta parses the contigs of a FASTA file's contents
func readFasta(path, contents string) (contigs []*Contig, err error) {
	// split by newlines
	lines := strings.Split(contents, "\n")

	// find the headers
	var headerIndices []int
	var ids []string
	var descs []string
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			headerIndices = append(headerIndices, i)

			header := strings.TrimSpace(line[1:])
			id, desc := header, ""
			if j := strings.IndexAny(header, " \t"); j > 0 {
				id, desc = header[:j], strings.TrimSpace(header[j+1:])
			}
			ids = append(ids, id)
			descs = append(descs, desc)
		}
	}

	// accumulate the sequences from between the headers
	var seqs []string
	for i, headerIndex := range headerIndices {
		nextLine := len(lines)
		if i < len(headerIndices)-1 {
			nextLine = headerIndices[i+1]
		}
		seqLines := lines[headerIndex+1 : nextLine]
		seqJoined := strings.Join(seqLines, "")
		seqs = append(seqs, unwantedChars.ReplaceAllString(seqJoined, ""))
	}

	// build and return the new contigs
	seen := make(map[string]bool)
	for i, id := range ids {
		if id == "" {
			return nil, &MalformedInputError{Path: path, Line: headerIndices[i] + 1, Reason: "empty sequence name"}
		}
		if seen[id] {
			return nil, &MalformedInputError{Path: path, Line: headerIndices[i] + 1, Reason: fmt.Sprintf("duplicate sequence name %q", id)}
		}
		seen[id] = true

		contigs = append(contigs, &Contig{
			ID:   id,
			Desc: descs[i],
			Seq:  seqs[i],
		})
	}

	// opened and parsed file but found nothing
	if len(contigs) < 1 {
		return nil, &MalformedInputError{Path: path, Reason: "no sequences found"}
	}

	return
}

// fastaLineLength is the column sequences are wrapped at on output
const fastaLineLength = 60

// writeFasta writes contigs to a FASTA file, sequences wrapped at 60
// columns. Chromosome scale sequences go through a buffered writer.
func writeFasta(path string, contigs []*Contig) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, c := range contigs {
		header := c.ID
		if c.Desc != "" {
			header += " " + c.Desc
		}
		if _, err := fmt.Fprintf(w, ">%s\n", header); err != nil {
			return fmt.Errorf("failed to write %s: %v", path, err)
		}

		for start := 0; start < len(c.Seq); start += fastaLineLength {
			end := start + fastaLineLength
			if end > len(c.Seq) {
				end = len(c.Seq)
			}
			if _, err := fmt.Fprintf(w, "%s\n", c.Seq[start:end]); err != nil {
				return fmt.Errorf("failed to write %s: %v", path, err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// revCompTable maps each base to its complement. Ambiguity codes map to
// their IUPAC complements and anything unrecognized maps to itself, so a
// second application always restores the original sequence.
var revCompTable = buildRevCompTable()

func buildRevCompTable() (table [256]byte) {
	for i := 0; i < 256; i++ {
		table[i] = byte(i)
	}

	pairs := map[byte]byte{
		'A': 'T',
		'T': 'A',
		'G': 'C',
		'C': 'G',
		'R': 'Y', // purine <-> pyrimidine
		'Y': 'R',
		'K': 'M', // keto <-> amino
		'M': 'K',
		'B': 'V', // not-A <-> not-T
		'V': 'B',
		'D': 'H', // not-C <-> not-G
		'H': 'D',
		'S': 'S',
		'W': 'W',
		'N': 'N',
	}
	for b, comp := range pairs {
		table[b] = comp
		table[b+'a'-'A'] = comp + 'a' - 'A'
	}
	return
}

// reverseComplement returns the reverse complement of seq, preserving
// case so soft-masked regions stay soft-masked
func reverseComplement(seq string) string {
	revComp := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		revComp[len(seq)-1-i] = revCompTable[seq[i]]
	}
	return string(revComp)
}
