package cmd

import (
	"github.com/laramiemckenna/YARBS/internal/yarbs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// structureCmd is for summarizing the structure of finished scaffolds.
var structureCmd = &cobra.Command{
	Use:   "structure",
	Run:   yarbs.StructureCmd,
	Short: "Report the gap regions and telomere clusters of each scaffold",
	Long: `Scans every sequence of a scaffolded FASTA for runs of Ns and for
clusters of the telomere motif near its ends, then writes JSON and text
reports summarizing the contigs, gaps and telomeres found

Sequences below the minimum length are skipped, assemblies usually hold
short debris contigs that would drown out the chromosomes`,
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	structureCmd.Flags().StringP("in", "i", "", "input scaffolded FASTA file name")
	structureCmd.Flags().StringP("out", "o", "", "output file name prefix")
	structureCmd.Flags().String("motif", "TTTAGGG", "telomere repeat motif")
	structureCmd.Flags().Int("min-length", 10000000, "shortest sequence analyzed")
	structureCmd.Flags().Int("min-gap-size", 100, "shortest N run reported as a gap")
	structureCmd.Flags().Int("max-dist-between", 500, "largest distance between motif hits in one cluster")
	structureCmd.Flags().Int("min-size", 300, "smallest telomere cluster kept")
	structureCmd.Flags().Float64("min-density", 0.5, "smallest motif fraction of a telomere cluster")
	structureCmd.Flags().Int("dist-to-end", 5000, "how far from each sequence end to search for telomeres")

	viper.BindPFlag("telomere.motif", structureCmd.Flags().Lookup("motif"))
	viper.BindPFlag("telomere.max-dist-between", structureCmd.Flags().Lookup("max-dist-between"))
	viper.BindPFlag("telomere.min-size", structureCmd.Flags().Lookup("min-size"))
	viper.BindPFlag("telomere.min-density", structureCmd.Flags().Lookup("min-density"))
	viper.BindPFlag("telomere.dist-to-end", structureCmd.Flags().Lookup("dist-to-end"))
	viper.BindPFlag("structure.min-length", structureCmd.Flags().Lookup("min-length"))
	viper.BindPFlag("structure.min-gap-size", structureCmd.Flags().Lookup("min-gap-size"))

	RootCmd.AddCommand(structureCmd)
}
