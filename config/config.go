// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Minimap2Config is settings for the minimap2 invocation
type Minimap2Config struct {
	// the name of or path to the minimap2 executable
	Path string `mapstructure:"path"`

	// the preset passed as -x, asm20 fits assembly to reference mapping
	Preset string `mapstructure:"preset"`

	// the thread count passed as -t, also sizes the classification
	// worker pool
	Threads int `mapstructure:"threads"`
}

// TelomereConfig is settings for telomere repeat clustering
type TelomereConfig struct {
	// the repeat motif searched for near sequence ends
	Motif string `mapstructure:"motif"`

	// the largest distance between motif hits within one cluster
	MaxDistBetween int `mapstructure:"max-dist-between"`

	// the smallest cluster span that is kept
	MinSize int `mapstructure:"min-size"`

	// the smallest fraction of a cluster covered by the motif
	MinDensity float64 `mapstructure:"min-density"`

	// how far from each sequence end to search
	DistToEnd int `mapstructure:"dist-to-end"`
}

// StructureConfig is settings for the structure analyzer
type StructureConfig struct {
	// the shortest sequence that is analyzed at all
	MinLength int `mapstructure:"min-length"`

	// the shortest N run that is reported as a gap
	MinGapSize int `mapstructure:"min-gap-size"`
}

// Config is the root-level settings struct and is a mix
// of settings available in an optional .yarbs.yaml and those
// available from the command line
type Config struct {
	// the number of Ns inserted between joined fragments
	GapLength int `mapstructure:"gap-length"`

	// the unique content an alignment needs for the unique tag
	UniqueLength int `mapstructure:"unique-length"`

	// minimap2 settings
	Minimap2 Minimap2Config `mapstructure:"minimap2"`

	// telomere clustering settings
	Telomere TelomereConfig `mapstructure:"telomere"`

	// structure analyzer settings
	Structure StructureConfig `mapstructure:"structure"`
}

// setDefaults registers the stock settings with Viper. Command line
// flags bound in /cmd and keys of a .yarbs.yaml both override these.
func setDefaults() {
	viper.SetDefault("gap-length", 100)
	viper.SetDefault("unique-length", 10000)

	viper.SetDefault("minimap2.path", "minimap2")
	viper.SetDefault("minimap2.preset", "asm20")
	viper.SetDefault("minimap2.threads", 8)

	// plant telomere motif by default
	viper.SetDefault("telomere.motif", "TTTAGGG")
	viper.SetDefault("telomere.max-dist-between", 500)
	viper.SetDefault("telomere.min-size", 300)
	viper.SetDefault("telomere.min-density", 0.5)
	viper.SetDefault("telomere.dist-to-end", 5000)

	viper.SetDefault("structure.min-length", 10000000)
	viper.SetDefault("structure.min-gap-size", 100)
}

// New returns a new Config struct populated by Viper settings
// (either from a local .yarbs.yaml) and/or command line arguments
func New() *Config {
	setDefaults()

	viper.SetConfigName(".yarbs")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("failed to read settings file, %v", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return c
}
