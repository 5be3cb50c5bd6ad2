package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the GoLibraryAdmin web service and the scheduled directory sync",
	RunE: func(_ *cobra.Command, _ []string) error {
		if dump, err := config.DumpConfig(cfg.Redacted()); err == nil {
			log.Debug().Msg("effective config:\n" + dump)
		}

		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}

		return d.Start()
	},
}
