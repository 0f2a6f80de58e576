package yarbs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/laramiemckenna/YARBS/config"
	"github.com/spf13/cobra"
)

// Flags contains parsed cobra Flags like "query", "coords", "out", etc
// that are used by one or more commands.
type Flags struct {
	// the reference FASTA the assembly is aligned against
	reference string

	// the assembly FASTA being aligned or scaffolded
	query string

	// the FASTA analyzed by the structure command
	in string

	// the coordinates file from a previous align run
	coords string

	// the modifications JSON from a curation session
	modifications string

	// the output path prefix
	out string

	// an existing PAF file to classify instead of running minimap2
	paf string

	// whether to analyze the structure of the scaffolded output
	structure bool
}

// inputParser contains methods for parsing flags from the input &cobra.Command.
type inputParser struct{}

// NewFlags makes a new flags object manually. for testing.
func NewFlags(reference, query, in, coords, modifications, out, paf string, structure bool) *Flags {
	return &Flags{
		reference:     reference,
		query:         query,
		in:            in,
		coords:        coords,
		modifications: modifications,
		out:           out,
		paf:           paf,
		structure:     structure,
	}
}

// guessInput returns the first FASTA file in the current directory
func (p *inputParser) guessInput() (in string, err error) {
	dir, _ := filepath.Abs(".")
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext == ".fa" || ext == ".fasta" {
			return file.Name(), nil
		}
	}

	return "", fmt.Errorf("failed: no input argument set and no fasta file found in %s", dir)
}

// guessOutput guesses an output prefix from an input path by dropping
// the extension. Each output file appends its own suffix to the prefix.
func (p *inputParser) guessOutput(in string) (out string) {
	ext := filepath.Ext(in)
	return in[0 : len(in)-len(ext)]
}

// parseAlignFlags gathers the reference path, query path, etc from a
// cobra cmd object, returning Flags and a Config for Align
func parseAlignFlags(cmd *cobra.Command) (*Flags, *config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}
	c := config.New()

	fs.paf, _ = cmd.Flags().GetString("paf")

	// reference and query are only needed to run minimap2, an existing
	// PAF can be classified on its own
	if fs.reference, err = cmd.Flags().GetString("reference"); fs.paf == "" && (fs.reference == "" || err != nil) {
		cmd.Help()
		stderr.Fatal("no reference FASTA path")
	}

	if fs.query, err = cmd.Flags().GetString("query"); fs.paf == "" && (fs.query == "" || err != nil) {
		cmd.Help()
		stderr.Fatal("no query FASTA path")
	}

	if fs.out, err = cmd.Flags().GetString("out"); fs.out == "" || err != nil {
		if fs.query != "" {
			fs.out = p.guessOutput(fs.query)
		} else {
			fs.out = p.guessOutput(fs.paf)
		}
	}

	return fs, c
}

// parseScaffoldFlags gathers the scaffold command's flags, returning
// Flags and a Config for Scaffold
func parseScaffoldFlags(cmd *cobra.Command) (*Flags, *config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}
	c := config.New()

	if fs.query, err = cmd.Flags().GetString("query"); fs.query == "" || err != nil {
		cmd.Help()
		stderr.Fatal("no query FASTA path")
	}

	if fs.modifications, err = cmd.Flags().GetString("modifications"); fs.modifications == "" || err != nil {
		cmd.Help()
		stderr.Fatal("no modifications JSON path")
	}

	if fs.out, err = cmd.Flags().GetString("out"); fs.out == "" || err != nil {
		fs.out = p.guessOutput(fs.query)
	}

	fs.structure, _ = cmd.Flags().GetBool("structure")

	return fs, c
}

// parseStructureFlags gathers the structure command's flags, returning
// Flags and a Config for Structure
func parseStructureFlags(cmd *cobra.Command) (*Flags, *config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}
	c := config.New()

	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		if fs.in, err = p.guessInput(); err != nil {
			cmd.Help()
			stderr.Fatal(err)
		}
	}

	if fs.out, err = cmd.Flags().GetString("out"); fs.out == "" || err != nil {
		fs.out = p.guessOutput(fs.in)
	}

	return fs, c
}

// parseSuggestFlags gathers the suggest command's flags, returning
// Flags and a Config for Suggest
func parseSuggestFlags(cmd *cobra.Command) (*Flags, *config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	c := config.New()

	if fs.coords, err = cmd.Flags().GetString("coords"); fs.coords == "" || err != nil {
		cmd.Help()
		stderr.Fatal("no coordinates file path")
	}

	// out is an optional JSON path, the suggestion table prints either way
	fs.out, _ = cmd.Flags().GetString("out")

	return fs, c
}

// validateConfig rejects settings that would corrupt output, before any
// input is read or any file written
func validateConfig(c *config.Config) error {
	if c.GapLength < 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("gap length must be at least 1, got %d", c.GapLength)}
	}
	if c.Telomere.Motif == "" {
		return &ConfigurationError{Reason: "telomere motif must not be empty"}
	}
	if c.Telomere.MinDensity <= 0 || c.Telomere.MinDensity > 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("telomere density must be in (0, 1], got %g", c.Telomere.MinDensity)}
	}
	if c.Structure.MinGapSize < 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("minimum gap size must be at least 1, got %d", c.Structure.MinGapSize)}
	}
	return nil
}
