package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/arglint/arglint/internal/model"
)

// InformalRules returns the structural checks every reconstruction must
// satisfy, formalized or not.
func InformalRules() []Rule {
	return []Rule{
		{ID: "has_arguments", Scope: ScopeGraph, Check: hasArguments},
		{ID: "has_unique_argument", Scope: ScopeGraph, Check: hasUniqueArgument},
		{ID: "has_pcs", Scope: ScopeArgument, Check: hasPCS},
		{ID: "starts_with_premise", Scope: ScopeArgument, Check: startsWithPremise},
		{ID: "ends_with_conclusion", Scope: ScopeArgument, Check: endsWithConclusion},
		{ID: "has_no_duplicate_pcs_labels", Scope: ScopeArgument, Check: hasNoDuplicatePCSLabels},
		{ID: "has_label", Scope: ScopeArgument, Check: hasLabel},
		{ID: "has_gist", Scope: ScopeArgument, Check: hasGist},
		{ID: "has_not_multiple_gists", Scope: ScopeArgument, Check: hasNotMultipleGists},
		{ID: "has_inference_data", Scope: ScopeArgument, Check: hasInferenceData},
		{ID: "prop_refs_exist", Scope: ScopeArgument, Check: propRefsExist},
		{ID: "uses_all_props", Scope: ScopeArgument, Check: usesAllProps},
		{ID: "no_extra_propositions", Scope: ScopeGraph, Check: noExtraPropositions},
		{ID: "only_grounded_relations", Scope: ScopeGraph, Check: onlyGroundedRelations},
		{ID: "no_prop_inline_data", Scope: ScopeGraph, Check: noPropInlineData},
		{ID: "no_arg_inline_data", Scope: ScopeGraph, Check: noArgInlineData},
	}
}

func hasArguments(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	if len(g.Arguments) == 0 {
		return Failed("No arguments found in the snippet.")
	}
	return Passed()
}

func hasUniqueArgument(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	switch {
	case len(g.Arguments) == 0:
		return Failed("No argument in the snippet.")
	case len(g.Arguments) > 1:
		return Failed("More than one argument in the snippet.")
	}
	return Passed()
}

func hasPCS(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, _ Config) Outcome {
	if len(arg.PCS) == 0 {
		return Failed("Argument lacks premise conclusion structure, i.e., is not reconstructed in standard form.")
	}
	return Passed()
}

func startsWithPremise(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, _ Config) Outcome {
	if len(arg.PCS) == 0 {
		return Skipped()
	}
	if arg.PCS[0].Conclusion {
		return Failed("Argument does not start with a premise.")
	}
	return Passed()
}

func endsWithConclusion(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, _ Config) Outcome {
	if len(arg.PCS) == 0 {
		return Skipped()
	}
	if !arg.PCS[len(arg.PCS)-1].Conclusion {
		return Failed("Argument does not end with a conclusion.")
	}
	return Passed()
}

func hasNoDuplicatePCSLabels(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, _ Config) Outcome {
	if len(arg.PCS) == 0 {
		return Skipped()
	}
	counts := make(map[string]int)
	for _, it := range arg.PCS {
		counts[it.Label]++
	}
	var dups []string
	for _, it := range arg.PCS {
		if counts[it.Label] > 1 {
			counts[it.Label] = 0 // report each label once, in sequence order
			dups = append(dups, fmt.Sprintf("(%s)", it.Label))
		}
	}
	if len(dups) > 0 {
		return Failed("Duplicate labels in the argument's standard form: %s.", strings.Join(dups, ", "))
	}
	return Passed()
}

func hasLabel(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, _ Config) Outcome {
	if arg.Label == "" {
		return Failed("Argument lacks a label.")
	}
	return Passed()
}

func hasGist(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, _ Config) Outcome {
	if len(arg.Gists) == 0 {
		return Failed("Argument lacks a gist.")
	}
	return Passed()
}

func hasNotMultipleGists(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, _ Config) Outcome {
	if len(arg.Gists) > 1 {
		return Failed("Argument has more than one gist.")
	}
	return Passed()
}

func hasInferenceData(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, cfg Config) Outcome {
	if len(arg.PCS) == 0 {
		return Skipped()
	}
	var msgs []string
	for _, it := range arg.PCS {
		if !it.Conclusion {
			continue
		}
		if len(it.Inference) == 0 {
			msgs = append(msgs, fmt.Sprintf("Conclusion (%s) lacks inference information.", it.Label))
			continue
		}
		raw, ok := it.Inference[cfg.Keys.From]
		if !ok {
			msgs = append(msgs, fmt.Sprintf("Inference information of conclusion (%s) lacks the '%s' key.", it.Label, cfg.Keys.From))
			continue
		}
		switch list := raw.(type) {
		case []any:
			if len(list) == 0 {
				msgs = append(msgs, fmt.Sprintf("Inference information of conclusion (%s) has an empty '%s' list.", it.Label, cfg.Keys.From))
			}
		case []string:
			if len(list) == 0 {
				msgs = append(msgs, fmt.Sprintf("Inference information of conclusion (%s) has an empty '%s' list.", it.Label, cfg.Keys.From))
			}
		default:
			msgs = append(msgs, fmt.Sprintf("Inference information of conclusion (%s) has a '%s' value that is not a list.", it.Label, cfg.Keys.From))
		}
	}
	if len(msgs) > 0 {
		return Failed("%s", strings.Join(msgs, " "))
	}
	return Passed()
}

func propRefsExist(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, cfg Config) Outcome {
	if len(arg.PCS) == 0 {
		return Skipped()
	}
	var msgs []string
	for i, it := range arg.PCS {
		if !it.Conclusion {
			continue
		}
		earlier := make(map[string]bool, i)
		for _, prev := range arg.PCS[:i] {
			earlier[prev.Label] = true
		}
		for _, ref := range it.From(cfg.Keys.From) {
			if !earlier[ref] {
				msgs = append(msgs, fmt.Sprintf(
					"Item '%s' in inference information of conclusion (%s) does not refer to a previously introduced premise or conclusion.",
					ref, it.Label))
			}
		}
	}
	if len(msgs) > 0 {
		return Failed("%s", strings.Join(msgs, " "))
	}
	return Passed()
}

func usesAllProps(_ context.Context, _ *model.ArgumentGraph, arg *model.Argument, cfg Config) Outcome {
	if len(arg.PCS) == 0 {
		return Skipped()
	}
	used := make(map[string]bool)
	for _, it := range arg.PCS {
		if !it.Conclusion {
			continue
		}
		for _, ref := range it.From(cfg.Keys.From) {
			used[ref] = true
		}
	}
	var unused []string
	for _, it := range arg.PCS[:len(arg.PCS)-1] {
		if !used[it.Label] {
			unused = append(unused, fmt.Sprintf("(%s)", it.Label))
		}
	}
	if len(unused) > 0 {
		return Failed("Some propositions are not explicitly used in any inferences: %s.", strings.Join(unused, ", "))
	}
	return Passed()
}

func noExtraPropositions(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	inPCS := make(map[string]bool)
	for _, arg := range g.Arguments {
		for _, it := range arg.PCS {
			inPCS[it.PropLabel] = true
		}
	}
	var outside []string
	for _, prop := range g.Propositions {
		if !inPCS[prop.Label] {
			outside = append(outside, fmt.Sprintf("[%s]", prop.Label))
		}
	}
	if len(outside) > 0 {
		sort.Strings(outside)
		return Failed("Snippet contains propositions not used in any argument: %s.", strings.Join(outside, ", "))
	}
	return Passed()
}

// onlyGroundedRelations fails when a reconstruction snippet declares
// dialectical relations of its own. In a standard-form reconstruction the
// only admissible relations are the ones that follow from the inferential
// structure, and those are never written down as edges.
func onlyGroundedRelations(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	for _, rel := range g.Relations {
		if rel.Grounding != model.GroundedG {
			return Failed("Snippet declares dialectical relations.")
		}
	}
	return Passed()
}

func noPropInlineData(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	var withData []string
	for _, prop := range g.Propositions {
		if len(prop.Data) > 0 {
			withData = append(withData, fmt.Sprintf("[%s]", prop.Label))
		}
	}
	if len(withData) > 0 {
		return Failed("The following propositions carry inline metadata: %s.", strings.Join(withData, ", "))
	}
	return Passed()
}

func noArgInlineData(_ context.Context, g *model.ArgumentGraph, _ *model.Argument, _ Config) Outcome {
	var withData []string
	for _, arg := range g.Arguments {
		if len(arg.Data) > 0 {
			label := arg.Label
			if label == "" {
				label = "unlabeled argument"
			}
			withData = append(withData, fmt.Sprintf("<%s>", label))
		}
	}
	if len(withData) > 0 {
		return Failed("The following arguments carry inline metadata: %s.", strings.Join(withData, ", "))
	}
	return Passed()
}
