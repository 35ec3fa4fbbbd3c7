package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polkit-go/localauthority/internal/authority"
	"github.com/polkit-go/localauthority/internal/config"
)

var adminIdentitiesConfigDir string

var adminIdentitiesCmd = &cobra.Command{
	Use:   "admin-identities",
	Short: "Print the resolved administrator identities",
	Long: `Reads Configuration.AdminIdentities from the given config directory,
expands any unix-group/unix-netgroup entries to their member users, and
prints one canonical identity per line.`,
	Args: cobra.NoArgs,
	RunE: runAdminIdentities,
}

func init() {
	adminIdentitiesCmd.Flags().StringVarP(&adminIdentitiesConfigDir, "config-dir", "c", "", "directory of \"localauthority.conf.d\"-style .conf files (default: ambient Settings.ConfigDir)")
	rootCmd.AddCommand(adminIdentitiesCmd)
}

func runAdminIdentities(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	configDir := resolveConfigDir(adminIdentitiesConfigDir, logger)
	logger.Info("admin-identities invoked", "correlation_id", correlationID(), "config_dir", configDir)

	src := config.NewINISource(logger, configDir)

	a := authority.New(logger, nil)
	identities := a.GetAdminIdentities(context.Background(), src)

	for _, id := range identities {
		fmt.Fprintln(cmd.OutOrStdout(), id.String())
	}
	return nil
}
