package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/arglint/arglint/internal/model"
)

// MapRules returns the checks on argument maps: sketched graphs whose
// nodes are claims and gisted arguments, with no standard-form material.
func MapRules() []Rule {
	return []Rule{
		{ID: "complete_claims", Scope: ScopeGraph, Check: completeClaims},
		{ID: "no_duplicate_labels", Scope: ScopeGraph, Check: noDuplicateLabels},
		{ID: "no_pcs", Scope: ScopeGraph, Check: noPCS},
	}
}

// DefaultMapDimensions is the dimension table for argument maps.
func DefaultMapDimensions() []Dimension {
	return []Dimension{
		{ID: "incomplete_claims", RuleIDs: []string{"complete_claims"}},
		{ID: "duplicate_labels", RuleIDs: []string{"no_duplicate_labels"}},
		{ID: "premise_conclusion_structures", RuleIDs: []string{"no_pcs"}},
	}
}

func completeClaims(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	var incomplete []string
	for _, prop := range g.Propositions {
		if len(prop.Texts) == 0 || prop.Texts[0] == "" {
			incomplete = append(incomplete, fmt.Sprintf("[%s]", prop.Label))
		}
	}
	if len(incomplete) > 0 {
		return Failed("Missing texts for claims: %s.", strings.Join(incomplete, ", "))
	}
	return Passed()
}

// noDuplicateLabels flags labels that have been bound to divergent
// content: a claim label with more than one text, or an argument label
// with more than one gist, indicates the label was reused.
func noDuplicateLabels(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	var dups []string
	for _, prop := range g.Propositions {
		if prop.Label != "" && len(prop.Texts) > 1 {
			dups = append(dups, fmt.Sprintf("[%s]", prop.Label))
		}
	}
	for _, arg := range g.Arguments {
		if arg.Label != "" && len(arg.Gists) > 1 {
			dups = append(dups, fmt.Sprintf("<%s>", arg.Label))
		}
	}
	if len(dups) > 0 {
		return Failed("Duplicate labels: %s.", strings.Join(dups, ", "))
	}
	return Passed()
}

func noPCS(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	var reconstructed []string
	for _, arg := range g.Arguments {
		if len(arg.PCS) > 0 {
			label := arg.Label
			if label == "" {
				label = "unlabeled argument"
			}
			reconstructed = append(reconstructed, fmt.Sprintf("<%s>", label))
		}
	}
	if len(reconstructed) > 0 {
		return Failed("Found detailed reconstruction of individual argument(s) %s as premise-conclusion structures.", strings.Join(reconstructed, ", "))
	}
	return Passed()
}
