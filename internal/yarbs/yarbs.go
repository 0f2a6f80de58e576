// Package yarbs turns minimap2 alignments into curated genome scaffolds.
//
// The pipeline has three stages. "align" maps an assembly against a
// reference, classifies every alignment by how much of it is unique to
// its contig, and writes a coordinates file. The coordinates file is
// reviewed (by hand or in the browser viewer) and a modifications file
// is written with breaks, inversions and chromosome groupings. "scaffold"
// applies those edits to the assembly and emits scaffolded FASTA plus a
// report. "structure" summarizes gap runs and telomere repeat clusters
// in the result. "suggest" sits beside the review step, drafting a
// starting modifications file from a coordinates file's unique
// alignments.
package yarbs

import (
	"log"
	"os"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = log.New(os.Stderr, "", 0)

const (
	// TagUnique marks alignments whose unique query span meets the
	// unique length threshold. Only these count toward scaffolding.
	TagUnique = "unique"

	// TagUniqueShort marks alignments that fail the length threshold but
	// are mostly unique within their own span.
	TagUniqueShort = "unique_short"

	// TagRepetitive marks everything else.
	TagRepetitive = "repetitive"
)
