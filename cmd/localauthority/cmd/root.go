// Package cmd provides the CLI commands for localauthority.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/polkit-go/localauthority/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "localauthority",
	Short: "Local authorization authority decision engine",
	Long: `localauthority is the local authorization authority for a desktop
privilege-management framework. Given a subject's unix identity and an
action id, it decides an implicit authorization outcome by consulting
".pkla" rule files and an administrator-identities configuration.

Configuration:
  Engine bootstrap settings are loaded from localauthority.yaml in the
  current directory, $HOME/.localauthority/, or /etc/localauthority/.

  Environment variables can override config values with the
  LOCALAUTHORITY_ prefix. Example: LOCALAUTHORITY_LOG_LEVEL=debug

Commands:
  check-authorization  Decide an implicit authorization outcome
  admin-identities     Print the resolved administrator identities
  validate             Parse every rule file and report malformed ones
  version              Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./localauthority.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
