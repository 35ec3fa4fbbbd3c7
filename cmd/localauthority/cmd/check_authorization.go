package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/polkit-go/localauthority/internal/authority"
	"github.com/polkit-go/localauthority/internal/identity"
	"github.com/polkit-go/localauthority/internal/rule"
)

var checkAuthorizationPaths string

var checkAuthorizationCmd = &cobra.Command{
	Use:   "check-authorization <user> <local?> <active?> <action>",
	Short: "Decide an implicit authorization outcome",
	Long: `Decides an implicit authorization outcome for a unix user against an
action id, consulting the ".pkla" rule files under the given top-level
paths. Prints the canonical outcome token (empty line if unknown).`,
	Args: cobra.ExactArgs(4),
	RunE: runCheckAuthorization,
}

func init() {
	checkAuthorizationCmd.Flags().StringVarP(&checkAuthorizationPaths, "paths", "p", "", "semicolon-separated list of top-level authorization paths (default: ambient Settings.AuthorizationPaths)")
	rootCmd.AddCommand(checkAuthorizationCmd)
}

func runCheckAuthorization(cmd *cobra.Command, args []string) error {
	user, localStr, activeStr, action := args[0], args[1], args[2], args[3]

	isLocal, err := parseBoolArg(localStr)
	if err != nil {
		return fmt.Errorf("invalid local? argument: %w", err)
	}
	isActive, err := parseBoolArg(activeStr)
	if err != nil {
		return fmt.Errorf("invalid active? argument: %w", err)
	}

	logger := cliLogger()
	topLevels := resolvePaths(checkAuthorizationPaths, logger)
	if len(topLevels) == 0 {
		return fmt.Errorf("no authorization paths configured: pass --paths or set authorization_paths in localauthority.yaml")
	}

	reqID := correlationID()
	logger.Info("check-authorization invoked", "correlation_id", reqID, "user", user, "action", action)

	a := authority.New(logger, topLevels)
	ctx := context.Background()
	if err := a.Construct(ctx); err != nil {
		return fmt.Errorf("failed to build store set: %w", err)
	}
	defer a.Finalize()

	subject := identity.New(identity.KindUser, user)
	outcome := a.CheckAuthorization(ctx, subject, isLocal, isActive, action, nil, rule.Unknown)

	fmt.Fprintln(cmd.OutOrStdout(), outcome.String())
	return nil
}

func parseBoolArg(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected \"true\" or \"false\", got %q", s)
	}
}

func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
