package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arglint/arglint/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	Database string
	Limit    int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs [token]",
		Short: "List recorded verification runs, or show one run's report",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(rootOpts, opts, args[0], cmd)
			}
			return runListRuns(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite run log (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs to list")
	cmd.MarkFlagRequired("db")

	return cmd
}

func openRunLog(formatter *OutputFormatter, path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("run log not found: %s", path), nil)
		return nil, WrapExitError(ExitCommandError, "run log not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "cannot open run log", err)
	}
	return st, nil
}

func runListRuns(rootOpts *RootOptions, opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	st, err := openRunLog(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot list runs", err)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(runsPayload(runs))
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}
	for _, r := range runs {
		verdict := "valid"
		if !r.Valid {
			verdict = "invalid"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %-10s %s  %s\n",
			r.CreatedAt.Format(time.RFC3339), r.Token, r.Profile, verdict, r.SourceName)
	}
	return nil
}

func runShowRun(rootOpts *RootOptions, opts *RunsOptions, token string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	st, err := openRunLog(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	rep, err := st.RunReport(cmd.Context(), token)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot read run", err)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(rep)
	}
	fmt.Fprint(cmd.OutOrStdout(), rep.Text())
	return nil
}

// runsPayload shapes run rows for JSON output.
func runsPayload(runs []store.Run) []map[string]any {
	out := make([]map[string]any, 0, len(runs))
	for _, r := range runs {
		out = append(out, map[string]any{
			"token":       r.Token,
			"profile":     r.Profile,
			"source_name": r.SourceName,
			"valid":       r.Valid,
			"created_at":  r.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return out
}
