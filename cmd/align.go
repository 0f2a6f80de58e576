package cmd

import (
	"github.com/laramiemckenna/YARBS/internal/yarbs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// alignCmd is for mapping query contigs against a reference assembly.
var alignCmd = &cobra.Command{
	Use:   "align",
	Run:   yarbs.AlignCmd,
	Short: "Align contigs against a reference and classify alignment uniqueness",
	Long: `Runs minimap2 between a reference assembly and the query contigs, normalizes
the PAF rows it emits and tags every alignment as unique, unique_short or
repetitive by how much of it overlaps the query's other alignments

The classified alignments are written to a .coords file with a .coords.idx
index for curation. The modifications JSON saved during curation is what
"yarbs scaffold" applies`,
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	alignCmd.Flags().StringP("reference", "r", "", "input reference FASTA file name")
	alignCmd.Flags().StringP("query", "q", "", "input query contig FASTA file name")
	alignCmd.Flags().StringP("out", "o", "", "output file name prefix")
	alignCmd.Flags().StringP("paf", "p", "", "classify an existing PAF file instead of running minimap2")
	alignCmd.Flags().IntP("threads", "t", 8, "thread count for minimap2 and classification")
	alignCmd.Flags().StringP("preset", "x", "asm20", "minimap2 preset")
	alignCmd.Flags().IntP("unique-length", "u", 10000, "unique bases an alignment needs for the unique tag")

	// changed flags beat .yarbs.yaml keys which beat the defaults
	viper.BindPFlag("minimap2.threads", alignCmd.Flags().Lookup("threads"))
	viper.BindPFlag("minimap2.preset", alignCmd.Flags().Lookup("preset"))
	viper.BindPFlag("unique-length", alignCmd.Flags().Lookup("unique-length"))

	RootCmd.AddCommand(alignCmd)
}
