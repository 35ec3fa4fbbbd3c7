package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/polkit-go/localauthority/internal/storeset"
)

var validatePaths string

// validateCmd is an ambient devtool, not named in spec.md: it parses every
// ".pkla" file reachable under the given top-level paths and reports which
// ones failed to parse, without performing any decision. Useful for
// pre-deploy CI checks on a rule tree, in the spirit of the teacher's
// "trust-ca"/"reset" thin administrative wrappers.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse every rule file under the given paths and report malformed ones",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validatePaths, "paths", "p", "", "semicolon-separated list of top-level authorization paths (default: ambient Settings.AuthorizationPaths)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	topLevels := resolvePaths(validatePaths, logger)
	if len(topLevels) == 0 {
		return fmt.Errorf("no authorization paths configured: pass --paths or set authorization_paths in localauthority.yaml")
	}
	logger.Info("validate invoked", "correlation_id", correlationID(), "paths", topLevels)

	collector := &warnCollector{}
	collectingLogger := slog.New(collector)

	set := storeset.Build(cmd.Context(), collectingLogger, topLevels)

	fmt.Fprintf(cmd.OutOrStdout(), "stores: %d, rules: %d\n", set.Len(), set.RuleCount())
	if len(collector.warnings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no malformed files found")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d issue(s) found:\n", len(collector.warnings))
	for _, w := range collector.warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", w)
	}
	return nil
}

// warnCollector is a minimal slog.Handler that records every Warn-level
// (and above) message instead of writing it out, so validate can surface
// every skipped-file warning the storeset/store/rule packages already log
// without those packages needing any validate-specific hook.
type warnCollector struct {
	warnings []string
}

func (w *warnCollector) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn
}

func (w *warnCollector) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	r.Attrs(func(a slog.Attr) bool {
		msg += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	w.warnings = append(w.warnings, msg)
	return nil
}

func (w *warnCollector) WithAttrs(_ []slog.Attr) slog.Handler { return w }
func (w *warnCollector) WithGroup(_ string) slog.Handler      { return w }
