package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("analyzer", "./RunSimpleAnalyzer")
	v.SetDefault("outdir", "myhistos")
	v.SetDefault("npool", 4)
	v.SetDefault("samples", DefaultSamples)
	v.SetDefault("strict", false)
	v.SetDefault("rate", 0.0)
}
