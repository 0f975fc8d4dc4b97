package rules

import (
	"context"
	"strings"

	"github.com/arglint/arglint/internal/model"
)

// FormalizationRules returns the checks on the formal apparatus of a
// reconstruction that need no theorem prover: formulas must parse, symbol
// declarations must be consistent, and declared and used symbols must
// line up. The prover-backed checks build on these and live with the
// deduction handlers.
func FormalizationRules() []Rule {
	return []Rule{
		{ID: "has_flawless_formalizations", Scope: ScopeArgument, Check: hasFlawlessFormalizations},
	}
}

func hasFlawlessFormalizations(_ context.Context, g *model.ArgumentGraph, arg *model.Argument, cfg Config) Outcome {
	if len(arg.PCS) == 0 {
		return Skipped()
	}
	af := cfg.Formalize(g, arg)
	if len(af.Flaws) > 0 {
		return Failed("%s", strings.Join(af.Flaws, " "))
	}
	return Passed()
}
