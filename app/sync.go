package app

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/daemon"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/web/handler"
)

func init() { //nolint: gochecknoinits
	syncCmd.Flags().StringVarP(&syncAccount, "account", "a", "", "Sync a single account instead of the whole directory")

	rootCmd.AddCommand(syncCmd)
}

// ErrPartialSync is returned by the sync command when some entries were not synced.
var ErrPartialSync = errors.New("directory sync finished with errors")

var (
	syncAccount string

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Run a directory sync once and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := daemon.Build(&cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if syncAccount != "" {
				record, errSync := c.Engine.SyncAccount(syncAccount)
				if errSync != nil {
					return errSync
				}

				return enc.Encode(handler.NewIdentityView(record))
			}

			report, err := c.Runner.Run()
			if err != nil {
				return err
			}

			if err = enc.Encode(report); err != nil {
				return err
			}

			if report.Errors > 0 {
				return fmt.Errorf("%w: %d of %d entries failed", ErrPartialSync, report.Errors, report.TotalUsers)
			}

			return nil
		},
	}
)
