package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arglint/arglint/internal/config"
)

// NewValidateConfigCommand creates the validate-config command.
func NewValidateConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-config <config-file>",
		Short: "Check a CUE config file against the schema",
		Long: `Validate a config file without running anything.

Checks the file against the embedded CUE schema and reports the first
violation, so config mistakes surface before a verification run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateConfig(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidateConfig(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if _, err := os.Stat(path); err != nil {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("config file not found: %s", path), nil)
		return WrapExitError(ExitCommandError, "config file not found", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		formatter.Error(ErrCodeBadConfig, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid config", err)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(cfg)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ config valid")
	return nil
}
