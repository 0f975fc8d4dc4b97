package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arglint/arglint/internal/pipeline"
	"github.com/arglint/arglint/internal/rules"
)

// NewDimensionsCommand creates the dimensions command.
func NewDimensionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dimensions",
		Short: "List the verification profiles and their dimension tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDimensions(rootOpts, cmd)
		},
	}

	return cmd
}

// dimensionTables names the dimension tables the profiles draw from.
func dimensionTables() []struct {
	Name string
	Dims []rules.Dimension
} {
	return []struct {
		Name string
		Dims []rules.Dimension
	}{
		{"annotation", rules.AnnotationDimensions()},
		{"map", rules.DefaultMapDimensions()},
		{"informal", rules.DefaultInformalDimensions()},
		{"logical", rules.DefaultLogicalDimensions()},
	}
}

func runDimensions(rootOpts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if rootOpts.Format == "json" {
		payload := map[string]any{"profiles": pipeline.Profiles()}
		tables := map[string]any{}
		for _, table := range dimensionTables() {
			dims := map[string][]string{}
			for _, d := range table.Dims {
				dims[d.ID] = d.RuleIDs
			}
			tables[table.Name] = dims
		}
		payload["tables"] = tables
		return formatter.Success(payload)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "profiles:")
	for _, p := range pipeline.Profiles() {
		fmt.Fprintf(out, "  %s\n", p)
	}
	for _, table := range dimensionTables() {
		fmt.Fprintf(out, "\n%s dimensions:\n", table.Name)
		for _, d := range table.Dims {
			fmt.Fprintf(out, "  %-32s %s\n", d.ID, strings.Join(d.RuleIDs, ", "))
		}
	}
	return nil
}
