package cmd

import (
	"github.com/laramiemckenna/YARBS/internal/yarbs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scaffoldCmd is for stitching curated contigs into scaffolds.
var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Run:   yarbs.ScaffoldCmd,
	Short: "Apply curated modifications and stitch contigs into scaffolds",
	Long: `Applies the breaks, inversions and chromosome groups of a modifications
JSON file to the original contigs and writes the scaffolded FASTA along
with JSON and text reports of everything that was done

Contigs in a chromosome group are stitched in the group's order with a
run of Ns between them. Contigs in no group pass through unmodified as
unincorporated scaffolds`,
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	scaffoldCmd.Flags().StringP("query", "q", "", "input query contig FASTA file name")
	scaffoldCmd.Flags().StringP("modifications", "m", "", "modifications JSON file name from curation")
	scaffoldCmd.Flags().StringP("out", "o", "", "output file name prefix")
	scaffoldCmd.Flags().IntP("gap-length", "g", 100, "number of Ns inserted between joined contigs")
	scaffoldCmd.Flags().BoolP("structure", "s", false, "also analyze the structure of the scaffolded FASTA")

	viper.BindPFlag("gap-length", scaffoldCmd.Flags().Lookup("gap-length"))

	RootCmd.AddCommand(scaffoldCmd)
}
