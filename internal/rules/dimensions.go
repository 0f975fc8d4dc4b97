package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/arglint/arglint/internal/model"
)

// Dimension names a verdict of the final report and lists, explicitly,
// the rule ids whose failures it aggregates.
type Dimension struct {
	ID      string
	RuleIDs []string
}

// DefaultInformalDimensions is the dimension table for informal
// reconstructions: structure only, no formal apparatus.
func DefaultInformalDimensions() []Dimension {
	return []Dimension{
		{ID: "illformed_argument", RuleIDs: []string{
			"has_pcs",
			"starts_with_premise",
			"ends_with_conclusion",
			"has_no_duplicate_pcs_labels",
		}},
		{ID: "missing_label_gist", RuleIDs: []string{
			"has_label",
			"has_gist",
			"has_not_multiple_gists",
		}},
		{ID: "missing_inference_info", RuleIDs: []string{
			"has_inference_data",
		}},
		{ID: "unknown_proposition_references", RuleIDs: []string{
			"prop_refs_exist",
		}},
		{ID: "unused_propositions", RuleIDs: []string{
			"uses_all_props",
		}},
		{ID: "disallowed_material", RuleIDs: []string{
			"no_extra_propositions",
			"only_grounded_relations",
			"no_prop_inline_data",
			"no_arg_inline_data",
		}},
	}
}

// DefaultLogicalDimensions is the dimension table for logical
// reconstructions. It extends the informal table with the formalization
// and deduction dimensions; inline metadata on propositions is allowed
// here, since that is where formalizations live.
func DefaultLogicalDimensions() []Dimension {
	return []Dimension{
		{ID: "illformed_argument", RuleIDs: []string{
			"has_pcs",
			"starts_with_premise",
			"ends_with_conclusion",
			"has_no_duplicate_pcs_labels",
		}},
		{ID: "missing_label_gist", RuleIDs: []string{
			"has_label",
			"has_gist",
			"has_not_multiple_gists",
		}},
		{ID: "missing_inference_info", RuleIDs: []string{
			"has_inference_data",
		}},
		{ID: "unknown_proposition_references", RuleIDs: []string{
			"prop_refs_exist",
		}},
		{ID: "unused_propositions", RuleIDs: []string{
			"uses_all_props",
		}},
		{ID: "disallowed_material", RuleIDs: []string{
			"no_extra_propositions",
			"only_grounded_relations",
			"no_arg_inline_data",
		}},
		{ID: "flawed_formalizations", RuleIDs: []string{
			"has_flawless_formalizations",
		}},
		{ID: "invalid_inference", RuleIDs: []string{
			"is_globally_deductively_valid",
			"is_locally_deductively_valid",
		}},
		{ID: "redundant_premises", RuleIDs: []string{
			"all_premises_relevant",
		}},
		{ID: "inconsistent_premises", RuleIDs: []string{
			"premises_consistent",
		}},
		{ID: "ungrounded_relations", RuleIDs: []string{
			"relations_formally_grounded",
		}},
	}
}

// DimensionResult is one dimension's aggregated verdict.
type DimensionResult struct {
	Dimension string
	Passed    bool
	Message   string
}

// RunBattery evaluates every dimension of the table against the graph.
// Argument-scoped rules run once per argument; their failures are
// prefixed with the argument's label. A rule id missing from the registry
// aborts the battery: the tables are wiring, and broken wiring must not
// pass silently.
func RunBattery(ctx context.Context, reg *Registry, dims []Dimension, g *model.ArgumentGraph, cfg Config) ([]DimensionResult, error) {
	results := make([]DimensionResult, 0, len(dims))
	for _, dim := range dims {
		var msgs []string
		for _, id := range dim.RuleIDs {
			rule, ok := reg.Rule(id)
			if !ok {
				return nil, fmt.Errorf("dimension %s references unregistered rule %s", dim.ID, id)
			}
			switch rule.Scope {
			case ScopeGraph:
				out := rule.Check(ctx, g, nil, cfg)
				if out.Status == Fail {
					msgs = append(msgs, failureMessage(out, id))
				}
			case ScopeArgument:
				for _, arg := range g.Arguments {
					out := rule.Check(ctx, g, arg, cfg)
					if out.Status == Fail {
						label := arg.Label
						if label == "" {
							label = "unlabeled argument"
						}
						msgs = append(msgs, fmt.Sprintf("Error in argument <%s>: %s", label, failureMessage(out, id)))
					}
				}
			}
		}
		results = append(results, DimensionResult{
			Dimension: dim.ID,
			Passed:    len(msgs) == 0,
			Message:   strings.Join(msgs, " "),
		})
	}
	return results, nil
}

func failureMessage(out Outcome, ruleID string) string {
	if out.Message == "" {
		return ruleID
	}
	return out.Message
}
