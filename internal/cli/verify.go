package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arglint/arglint/internal/config"
	"github.com/arglint/arglint/internal/pipeline"
	"github.com/arglint/arglint/internal/report"
	"github.com/arglint/arglint/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	Profile    string
	ConfigPath string
	Database   string
	SourcePath string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify <document>",
		Short: "Verify the fenced argument artifacts in a document",
		Long: `Verify a document's fenced Argdown and XML snippets against a task profile.

The profile decides which parsers, rule batteries and coherence checkers
run. Formal profiles (logreco and its compounds) query the configured SMT
solver; all other profiles run without external tools.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Profile, "profile", "p", "infreco", "verification profile (see 'arglint dimensions' for the list)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "CUE config file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite run log")
	cmd.Flags().StringVar(&opts.SourcePath, "source", "", "bare source text the annotation must reproduce")

	return cmd
}

func runVerify(rootOpts *RootOptions, opts *VerifyOptions, documentPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
	configureLogging(rootOpts.Verbose)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		formatter.Error(ErrCodeBadConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	document, err := os.ReadFile(documentPath)
	if err != nil {
		formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot read document", err)
	}

	sourceText := ""
	if opts.SourcePath != "" {
		data, err := os.ReadFile(opts.SourcePath)
		if err != nil {
			formatter.Error(ErrCodeReadFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "cannot read source text", err)
		}
		sourceText = string(data)
	}

	p, err := pipeline.New(pipeline.Profile(opts.Profile), pipeline.Options{Config: cfg})
	if err != nil {
		formatter.Error(ErrCodeUnknownProfile, err.Error(), map[string]any{"known": pipeline.Profiles()})
		return WrapExitError(ExitCommandError, "unknown profile", err)
	}

	formatter.VerboseLog("verifying %s with profile %s", documentPath, opts.Profile)
	req, err := p.RunWithSourceText(cmd.Context(), string(document), sourceText)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "verification aborted", err)
	}

	rep := report.FromRequest(req, opts.Profile)

	if opts.Database != "" {
		if err := recordRun(cmd, opts.Database, rep, documentPath); err != nil {
			formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "cannot record run", err)
		}
		formatter.VerboseLog("run %s recorded in %s", rep.Token, opts.Database)
	}

	if rootOpts.Format == "json" {
		if err := formatter.Success(rep); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), rep.Text())
	}

	if !rep.Valid {
		return NewExitError(ExitFailure, "verification failed")
	}
	return nil
}

func recordRun(cmd *cobra.Command, dbPath string, rep *report.Report, sourceName string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.WriteRun(cmd.Context(), rep, sourceName)
}

// configureLogging routes slog to stderr, at debug level when verbose.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
