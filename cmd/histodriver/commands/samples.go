package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hepworks/histodriver/config"
)

// SamplesCmd prints the effective sample list
var SamplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Print the sample list a run would dispatch",
	Long: `Print the effective sample list, one name per line, in dispatch order.

The list comes from histodriver.toml (or --config); without one the
built-in default list is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			cfg, err = config.LoadFromFile(path)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		for _, sample := range cfg.Samples {
			pterm.Println(sample)
		}
		return nil
	},
}
