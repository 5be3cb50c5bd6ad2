package app

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/daemon"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/directory"
)

func init() { //nolint: gochecknoinits
	probeCmd.Flags().BoolVar(&probeBind, "bind", false, "Also open an admin session to check the service account")

	rootCmd.AddCommand(probeCmd)
}

var (
	probeBind bool

	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Check that the directory is reachable, running discovery when needed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dirCfg, err := daemon.DirectoryConfig(cfg.Directory)
			if err != nil {
				return err
			}

			client, err := directory.NewClient(dirCfg)
			if err != nil {
				return err
			}

			status := client.Status()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if err = enc.Encode(status); err != nil {
				return err
			}

			if !status.Reachable {
				return &directory.ConnectivityError{Endpoint: client.Endpoint()}
			}

			if !probeBind {
				return nil
			}

			sess, err := client.OpenAdminSession()
			if err != nil {
				return err
			}

			return sess.Close()
		},
	}
)
