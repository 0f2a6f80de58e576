package cmd

import (
	"github.com/laramiemckenna/YARBS/internal/yarbs"
	"github.com/spf13/cobra"
)

// suggestCmd is for deriving a starting contig order from alignments.
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Run:   yarbs.SuggestCmd,
	Short: "Suggest a contig order and orientation per reference sequence",
	Long: `Reads the unique alignments of a coordinates file and prints, per
reference sequence, the contigs that align to it ordered by their mean
alignment position, with an orientation vote weighted by aligned bases

With an output prefix it also writes a skeleton modifications JSON to
start curation from: one chromosome group per reference plus an
inversion for every reverse-voted contig`,
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	suggestCmd.Flags().StringP("coords", "c", "", "input coordinates (.coords) file name")
	suggestCmd.Flags().StringP("out", "o", "", "output file name prefix for the skeleton modifications JSON")

	RootCmd.AddCommand(suggestCmd)
}
