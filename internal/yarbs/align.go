package yarbs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/laramiemckenna/YARBS/config"
	"github.com/spf13/cobra"
)

// AlignCmd runs align from the command line
func AlignCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseAlignFlags(cmd)
	if err := Align(flags, conf); err != nil {
		stderr.Fatalln(err)
	}
}

// minimapExec is a small utility for executing minimap2
type minimapExec struct {
	// the reference FASTA contigs are aligned against
	reference string

	// the query FASTA of input contigs
	query string

	// the path for the PAF output
	out string

	// the preset passed as -x
	preset string

	// the thread count passed as -t
	threads int

	// the name of or path to the minimap2 executable
	minimap2 string
}

// run executes minimap2 and writes the PAF rows it emits on stdout to
// m.out. stderr is kept for the error on a non-zero exit.
func (m *minimapExec) run() error {
	// base-level alignment with long cs tags, PAF on stdout
	// https://lh3.github.io/minimap2/minimap2.html
	mmCmd := exec.Command(
		m.minimap2,
		"-x", m.preset,
		"-t", strconv.Itoa(m.threads),
		"--cs=long",
		"-c",
		m.reference,
		m.query,
	)

	out, err := os.Create(m.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", m.out, err)
	}
	defer out.Close()

	var errBuf bytes.Buffer
	mmCmd.Stdout = out
	mmCmd.Stderr = &errBuf

	if err := mmCmd.Run(); err != nil {
		return &ExternalToolFailure{Tool: "minimap2", Err: err, Output: errBuf.String()}
	}
	return nil
}

// Align maps the query contigs against the reference with minimap2, or
// takes an existing PAF, then classifies alignment uniqueness and
// writes the coordinates and index files the review tool reads
func Align(f *Flags, conf *config.Config) error {
	if err := validateConfig(conf); err != nil {
		return err
	}

	pafFile := f.paf
	if pafFile == "" {
		pafFile = f.out + ".paf"

		m := &minimapExec{
			reference: f.reference,
			query:     f.query,
			out:       pafFile,
			preset:    conf.Minimap2.Preset,
			threads:   conf.Minimap2.Threads,
			minimap2:  conf.Minimap2.Path,
		}

		stderr.Printf("aligning %s against %s\n", f.query, f.reference)
		if err := m.run(); err != nil {
			return err
		}
	}

	records, err := parsePAFFile(pafFile)
	if err != nil {
		return err
	}
	stderr.Printf("parsed %d alignments from %s\n", len(records), pafFile)

	records = classify(records, conf.UniqueLength, conf.Minimap2.Threads)

	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.Tag]++
	}
	stderr.Printf("%d unique, %d unique_short, %d repetitive\n",
		counts[TagUnique], counts[TagUniqueShort], counts[TagRepetitive])

	coordsFile := f.out + ".coords"
	if err := writeCoords(coordsFile, records); err != nil {
		return err
	}

	indexFile := coordsFile + ".idx"
	if err := writeCoordsIndex(indexFile, records); err != nil {
		return err
	}

	stderr.Printf("wrote %s and %s\n", coordsFile, indexFile)
	return nil
}
