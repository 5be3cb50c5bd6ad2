// Package app implements the main application commands.
package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/config"
	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/logger"
)

var (
	configPath string // directory holding main.toml
	devMode    bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "go-library-admin",
		Short: "GoLibraryAdmin authenticates library staff and users against Active Directory",
		Long: `GoLibraryAdmin verifies credentials against an LDAP / Active Directory server,
keeps a local identity store in sync with the directory, derives roles and permissions
from group membership and hands out signed session tokens.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory containing main.toml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if devMode {
		// applied before validation, a dev run may omit the token secret
		if err = os.Setenv(config.EnvPrefix+"_DEVMODE", "true"); err != nil {
			return err
		}
	}

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}
